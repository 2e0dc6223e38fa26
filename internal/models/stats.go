package models

type ScenarioStats struct {
	TotalScenarios         int            `json:"total_scenarios"`
	AverageROI             float64        `json:"average_roi"`
	TotalInvestment        float64        `json:"total_investment"`
	MostPopularProjectType string         `json:"most_popular_project_type"`
	ScenariosByZone        map[string]int `json:"scenarios_by_zone"`
}

type UserStats struct {
	TotalUsers              int            `json:"total_users"`
	ActiveUsersLast30Days   int            `json:"active_users_last_30_days"`
	UsersByRole             map[string]int `json:"users_by_role"`
	AverageScenariosPerUser float64        `json:"average_scenarios_per_user"`
}

type SystemStats struct {
	Scenarios        ScenarioStats `json:"scenarios"`
	Users            UserStats     `json:"users"`
	ContractorsCount int           `json:"contractors_count"`
	ReportsGenerated int           `json:"reports_generated"`
}
