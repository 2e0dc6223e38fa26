// Package seed registers the reference contractors through the API.
package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xaenox/trendpulse/internal/client"
	"github.com/xaenox/trendpulse/internal/models"
)

// listLimit bounds the lookup of already registered contractors.
const listLimit = 1000

type ContractorAPI interface {
	ListContractors(ctx context.Context, limit int) ([]models.Contractor, error)
	CreateContractor(ctx context.Context, in client.NewContractor) (*models.Contractor, error)
}

// Contractors is the reference set loaded into a fresh installation.
var Contractors = []client.NewContractor{
	{
		Name:              "ООО СтройИнвест",
		Specializations:   []models.ProjectType{models.ProjectResidentialComplex, models.ProjectMixedDevelopment},
		Rating:            4.8,
		ExperienceYears:   15,
		CompletedProjects: 50,
		PriceRange:        models.PriceMedium,
		ContactPhone:      "+7 (495) 123-45-67",
		ContactEmail:      "info@stroinvest.ru",
	},
	{
		Name:              "ООО КоммерцСтрой",
		Specializations:   []models.ProjectType{models.ProjectShoppingCenter, models.ProjectOfficeComplex},
		Rating:            4.6,
		ExperienceYears:   12,
		CompletedProjects: 35,
		PriceRange:        models.PriceHigh,
		ContactPhone:      "+7 (495) 234-56-78",
		ContactEmail:      "contact@commercstroy.ru",
	},
	{
		Name:              "ООО ПромСтрой",
		Specializations:   []models.ProjectType{models.ProjectIndustrialPark, models.ProjectLogisticsCenter, models.ProjectDataCenter},
		Rating:            4.4,
		ExperienceYears:   18,
		CompletedProjects: 25,
		PriceRange:        models.PriceMedium,
		ContactPhone:      "+7 (495) 345-67-89",
		ContactEmail:      "info@promstroy.ru",
	},
	{
		Name:              "ООО ЭлитСтрой",
		Specializations:   []models.ProjectType{models.ProjectResidentialComplex},
		Rating:            4.9,
		ExperienceYears:   20,
		CompletedProjects: 15,
		PriceRange:        models.PricePremium,
		ContactPhone:      "+7 (495) 456-78-90",
		ContactEmail:      "elite@elitstroy.ru",
	},
	{
		Name:              "ООО БыстрыйСтрой",
		Specializations:   []models.ProjectType{models.ProjectLogisticsCenter, models.ProjectAgriculturalProcessing},
		Rating:            4.2,
		ExperienceYears:   8,
		CompletedProjects: 30,
		PriceRange:        models.PriceLow,
		ContactPhone:      "+7 (495) 567-89-01",
		ContactEmail:      "fast@faststroy.ru",
	},
}

// Run creates every contractor in set whose name is not registered yet and
// returns how many were created. Reruns are no-ops.
func Run(ctx context.Context, api ContractorAPI, set []client.NewContractor, logger *zap.Logger) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	existing, err := api.ListContractors(ctx, listLimit)
	if err != nil {
		return 0, fmt.Errorf("failed to list contractors: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, c := range existing {
		known[c.Name] = true
	}

	created := 0
	for _, in := range set {
		if known[in.Name] {
			logger.Info("Contractor already registered", zap.String("name", in.Name))
			continue
		}
		c, err := api.CreateContractor(ctx, in)
		if err != nil {
			return created, fmt.Errorf("failed to create contractor %q: %w", in.Name, err)
		}
		known[in.Name] = true
		created++
		logger.Info("Contractor created", zap.String("name", c.Name), zap.Int64("id", c.ID))
	}
	return created, nil
}
