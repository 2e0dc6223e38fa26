package bot

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/xaenox/trendpulse/internal/client"
	"github.com/xaenox/trendpulse/internal/models"
)

const (
	updateTimeout    = 2 * time.Minute
	scenariosShown   = 10
	contractorsShown = 5
)

// Sender is the part of the Telegram Bot API the bot uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Backend is the TrendPulse API. Form state lives behind it, not in the bot.
type Backend interface {
	GetSession(ctx context.Context, telegramID int64) (*models.ChatSession, error)
	SaveSession(ctx context.Context, telegramID int64, state *string, data map[string]any) (*models.ChatSession, error)
	DeleteSession(ctx context.Context, telegramID int64) error
	GenerateScenarios(ctx context.Context, req client.GenerateRequest) ([]models.Scenario, error)
	ListUserScenarios(ctx context.Context, telegramID int64) ([]models.Scenario, error)
	ListContractors(ctx context.Context, limit int) ([]models.Contractor, error)
	GenerateReport(ctx context.Context, scenarioID int64, reportType models.ReportType) (*client.Report, error)
	Download(ctx context.Context, downloadURL string) (string, []byte, error)
	Info(ctx context.Context) (*client.Info, error)
}

// User identifies the Telegram account behind an update.
type User struct {
	ID        int64
	Username  *string
	FirstName *string
	LastName  *string
}

func userFrom(u *tgbotapi.User) *User {
	user := &User{ID: u.ID}
	if u.UserName != "" {
		user.Username = &u.UserName
	}
	if u.FirstName != "" {
		user.FirstName = &u.FirstName
	}
	if u.LastName != "" {
		user.LastName = &u.LastName
	}
	return user
}

type Bot struct {
	api     Sender
	backend Backend
	logger  *zap.Logger

	// one lock per user keeps turns of the same chat in order
	locks sync.Map
	wg    sync.WaitGroup
}

func New(token string, debug bool, backend Backend, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	api.Debug = debug

	logger.Info("Authorized on Telegram", zap.String("account", api.Self.UserName))
	return NewWithAPI(api, backend, logger), nil
}

func NewWithAPI(api Sender, backend Backend, logger *zap.Logger) *Bot {
	return &Bot{
		api:     api,
		backend: backend,
		logger:  logger,
	}
}

// Start polls for updates until ctx is cancelled, then waits for in-flight handlers.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.HandleUpdate(ctx, update)
			}()
		}
	}
}

// HandleUpdate processes one update synchronously.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	ctx, cancel := context.WithTimeout(ctx, updateTimeout)
	defer cancel()

	switch {
	case update.Message != nil && update.Message.From != nil:
		unlock := b.lock(update.Message.From.ID)
		defer unlock()
		b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		unlock := b.lock(update.CallbackQuery.From.ID)
		defer unlock()
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) lock(userID int64) func() {
	mu, _ := b.locks.LoadOrStore(userID, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	if message.Text == "" {
		b.sendMessage(message.Chat.ID, "Я понимаю только текстовые ответы. Используйте /help, чтобы увидеть команды.")
		return
	}
	b.handleFormInput(ctx, message)
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStart(message)
	case "help":
		b.handleHelp(message)
	case "new":
		b.startForm(ctx, message.Chat.ID, message.From.ID)
	case "back":
		b.handleBack(ctx, message)
	case "cancel":
		b.handleCancel(ctx, message)
	case "scenarios":
		b.handleScenarios(ctx, message)
	case "contractors":
		b.handleContractors(ctx, message)
	case "about":
		b.handleAbout(ctx, message)
	default:
		b.sendMessage(message.Chat.ID, "Неизвестная команда. Используйте /help, чтобы увидеть доступные команды.")
	}
}

func (b *Bot) handleStart(message *tgbotapi.Message) {
	welcome := `Добро пожаловать в TrendPulse! 🏗
Я помогу подобрать сценарии развития земельного участка с расчетом экономики, подбором подрядчиков и PDF отчетами.

Нажмите /new, чтобы описать участок.
Используйте /help, чтобы увидеть все команды.`

	b.sendMessage(message.Chat.ID, welcome)
}

func (b *Bot) handleHelp(message *tgbotapi.Message) {
	help := `Доступные команды:
/new - Описать участок и получить сценарии
/back - Вернуться к предыдущему вопросу
/cancel - Отменить ввод
/scenarios - Ваши сценарии
/contractors - Подрядчики
/about - О сервисе
/help - Показать эту справку

Под каждым сценарием есть кнопки для получения Пред-ТЭО и инвестиционного меморандума в PDF.`

	b.sendMessage(message.Chat.ID, help)
}

// loadForm reads the user's session; a missing session is an idle, empty form.
func (b *Bot) loadForm(ctx context.Context, userID int64) (State, Form, error) {
	session, err := b.backend.GetSession(ctx, userID)
	if err != nil {
		if client.IsNotFound(err) {
			return StateIdle, Form{}, nil
		}
		return StateIdle, Form{}, err
	}
	return parseState(session.State), formFromData(session.Data), nil
}

func (b *Bot) saveForm(ctx context.Context, userID int64, state State, form Form) error {
	raw := string(state)
	if _, err := b.backend.SaveSession(ctx, userID, &raw, form.data()); err != nil {
		b.logger.Error("Failed to save session",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.String("state", raw))
		return err
	}
	return nil
}

func (b *Bot) startForm(ctx context.Context, chatID, userID int64) {
	next, err := Transition(StateIdle, EventStart)
	if err != nil {
		b.logger.Error("Invalid form transition", zap.Error(err))
		return
	}
	if err := b.saveForm(ctx, userID, next, Form{}); err != nil {
		b.sendErrorMessage(chatID, "Не удалось начать анкету. Попробуйте позже.")
		return
	}
	b.prompt(chatID, next, Form{})
}

// advance moves the form one step forward, persists it and asks the next question.
func (b *Bot) advance(ctx context.Context, chatID, userID int64, from State, form Form) {
	next, err := Transition(from, EventNext)
	if err != nil {
		b.logger.Error("Invalid form transition", zap.Error(err), zap.Int64("user_id", userID))
		return
	}
	if err := b.saveForm(ctx, userID, next, form); err != nil {
		b.sendErrorMessage(chatID, "Не удалось сохранить ответ. Попробуйте еще раз.")
		return
	}
	b.prompt(chatID, next, form)
}

func (b *Bot) prompt(chatID int64, state State, form Form) {
	msg := tgbotapi.NewMessage(chatID, "")
	switch state {
	case StateCollectingArea:
		msg.Text = "📐 Введите площадь участка в гектарах (например, 2.5):"
	case StateCollectingZone:
		msg.Text = "🗺 Выберите тип зоны участка:"
		msg.ReplyMarkup = zoneKeyboard()
	case StateCollectingInfrastructure:
		msg.Text = "🔌 Отметьте доступную инфраструктуру и нажмите «✅ Готово»:"
		msg.ReplyMarkup = infrastructureKeyboard(form)
	case StateCollectingPower:
		msg.Text = "⚡ Укажите доступную электрическую мощность в кВт или «-», если она неизвестна:"
	case StateCollectingBudget:
		msg.Text = "💰 Укажите инвестиционный бюджет в рублях или «-», чтобы пропустить:"
	default:
		return
	}
	b.send(msg)
}

func (b *Bot) handleFormInput(ctx context.Context, message *tgbotapi.Message) {
	chatID, userID := message.Chat.ID, message.From.ID

	state, form, err := b.loadForm(ctx, userID)
	if err != nil {
		b.logger.Error("Failed to load session", zap.Error(err), zap.Int64("user_id", userID))
		b.sendErrorMessage(chatID, "Не удалось получить состояние анкеты. Попробуйте позже.")
		return
	}

	switch state {
	case StateCollectingArea:
		area, err := parsePositive(message.Text)
		if err != nil {
			b.sendErrorMessage(chatID, "Площадь должна быть положительным числом, например 2.5")
			return
		}
		form.Area = area
		b.advance(ctx, chatID, userID, state, form)

	case StateCollectingZone, StateCollectingInfrastructure:
		b.sendMessage(chatID, "Пожалуйста, используйте кнопки под сообщением.")
		b.prompt(chatID, state, form)

	case StateCollectingPower:
		power, err := parseOptional(message.Text)
		if err != nil {
			b.sendErrorMessage(chatID, "Введите мощность числом больше нуля или «-»")
			return
		}
		form.ElectricityPower = power
		b.advance(ctx, chatID, userID, state, form)

	case StateCollectingBudget:
		budget, err := parseOptional(message.Text)
		if err != nil {
			b.sendErrorMessage(chatID, "Введите бюджет числом больше нуля или «-»")
			return
		}
		form.InvestmentBudget = budget
		b.finish(ctx, chatID, userFrom(message.From), form)

	default:
		b.sendMessage(chatID, "Чтобы подобрать сценарии, опишите участок командой /new")
	}
}

// finish submits the completed form. On failure the answers stay in the
// budget step so the user can retry.
func (b *Bot) finish(ctx context.Context, chatID int64, user *User, form Form) {
	if _, err := Transition(StateCollectingBudget, EventNext); err != nil {
		b.logger.Error("Invalid form transition", zap.Error(err))
		return
	}

	b.sendMessage(chatID, "⏳ Генерирую сценарии...\n\n"+formatForm(form))

	scenarios, err := b.backend.GenerateScenarios(ctx, form.request(user))
	if err != nil {
		b.logger.Error("Failed to generate scenarios",
			zap.Error(err),
			zap.Int64("user_id", user.ID))
		_ = b.saveForm(ctx, user.ID, StateCollectingBudget, form)
		if client.IsValidation(err) {
			b.sendErrorMessage(chatID, "Проверьте введенные данные: "+err.Error()+"\nИспользуйте /back или /cancel.")
			return
		}
		b.sendErrorMessage(chatID, "Не удалось сгенерировать сценарии. Введите бюджет еще раз или /cancel.")
		return
	}

	for _, s := range scenarios {
		b.sendScenario(chatID, s)
	}

	if err := b.backend.DeleteSession(ctx, user.ID); err != nil {
		b.logger.Warn("Failed to delete session", zap.Error(err), zap.Int64("user_id", user.ID))
	}
	b.sendMessage(chatID, "✅ Готово! Нажмите кнопку под сценарием, чтобы получить PDF отчет.\n/new - описать другой участок")
}

func (b *Bot) handleBack(ctx context.Context, message *tgbotapi.Message) {
	chatID, userID := message.Chat.ID, message.From.ID

	state, form, err := b.loadForm(ctx, userID)
	if err != nil {
		b.logger.Error("Failed to load session", zap.Error(err), zap.Int64("user_id", userID))
		b.sendErrorMessage(chatID, "Не удалось получить состояние анкеты. Попробуйте позже.")
		return
	}

	prev, err := Transition(state, EventBack)
	if err != nil {
		b.sendMessage(chatID, "Команда /back работает только во время заполнения анкеты. Начните с /new")
		return
	}

	if prev == StateIdle {
		if err := b.backend.DeleteSession(ctx, userID); err != nil {
			b.logger.Warn("Failed to delete session", zap.Error(err), zap.Int64("user_id", userID))
		}
		b.sendMessage(chatID, "Вы вышли из анкеты. /new - начать заново")
		return
	}

	if err := b.saveForm(ctx, userID, prev, form); err != nil {
		b.sendErrorMessage(chatID, "Не удалось вернуться назад. Попробуйте еще раз.")
		return
	}
	b.prompt(chatID, prev, form)
}

func (b *Bot) handleCancel(ctx context.Context, message *tgbotapi.Message) {
	chatID, userID := message.Chat.ID, message.From.ID

	if err := b.backend.DeleteSession(ctx, userID); err != nil {
		b.logger.Error("Failed to delete session", zap.Error(err), zap.Int64("user_id", userID))
		b.sendErrorMessage(chatID, "Не удалось отменить ввод. Попробуйте еще раз.")
		return
	}
	b.sendMessage(chatID, "❌ Ввод отменен. /new - начать заново")
}

func (b *Bot) handleScenarios(ctx context.Context, message *tgbotapi.Message) {
	scenarios, err := b.backend.ListUserScenarios(ctx, message.From.ID)
	if err != nil && !client.IsNotFound(err) {
		b.logger.Error("Failed to get user scenarios",
			zap.Error(err),
			zap.Int64("user_id", message.From.ID))
		b.sendErrorMessage(message.Chat.ID, "Не удалось получить ваши сценарии. Попробуйте позже.")
		return
	}

	if len(scenarios) == 0 {
		b.sendMessage(message.Chat.ID, "У вас пока нет сценариев. /new - описать участок")
		return
	}
	if len(scenarios) > scenariosShown {
		scenarios = scenarios[len(scenarios)-scenariosShown:]
	}
	b.sendMarkdown(message.Chat.ID, formatSummary(scenarios))
}

func (b *Bot) handleContractors(ctx context.Context, message *tgbotapi.Message) {
	contractors, err := b.backend.ListContractors(ctx, contractorsShown)
	if err != nil {
		b.logger.Error("Failed to get contractors", zap.Error(err))
		b.sendErrorMessage(message.Chat.ID, "Не удалось получить список подрядчиков. Попробуйте позже.")
		return
	}

	if len(contractors) == 0 {
		b.sendMessage(message.Chat.ID, "Подрядчики пока не добавлены.")
		return
	}
	b.sendMarkdown(message.Chat.ID, formatContractors(contractors))
}

func (b *Bot) handleAbout(ctx context.Context, message *tgbotapi.Message) {
	info, err := b.backend.Info(ctx)
	if err != nil {
		b.logger.Warn("Failed to get API info", zap.Error(err))
		b.sendMessage(message.Chat.ID, "ℹ️ TrendPulse - цифровая экосистема девелопмента.")
		return
	}
	b.sendMessage(message.Chat.ID, fmt.Sprintf("ℹ️ %s v%s\n%s", info.Name, info.Version, info.Description))
}

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.Message == nil {
		b.answerCallback(query.ID, "")
		return
	}

	kind, args := parseCallback(query.Data)
	switch {
	case kind == callbackZone && len(args) == 1:
		b.handleZone(ctx, query, args[0])
	case kind == callbackInfra && len(args) == 1:
		b.handleInfrastructure(ctx, query, args[0])
	case kind == callbackReport && len(args) == 2:
		b.handleReport(ctx, query, args[0], args[1])
	default:
		b.answerCallback(query.ID, "Неизвестная команда")
	}
}

func (b *Bot) handleZone(ctx context.Context, query *tgbotapi.CallbackQuery, raw string) {
	chatID, userID := query.Message.Chat.ID, query.From.ID

	state, form, err := b.loadForm(ctx, userID)
	if err != nil {
		b.answerCallback(query.ID, "Ошибка, попробуйте позже")
		return
	}
	if state != StateCollectingZone {
		b.answerCallback(query.ID, "Эта кнопка больше не активна")
		return
	}
	zone, ok := validZone(raw)
	if !ok {
		b.answerCallback(query.ID, "Неизвестный тип зоны")
		return
	}

	form.ZoneType = zone
	b.answerCallback(query.ID, zone.Label())
	b.advance(ctx, chatID, userID, state, form)
}

func (b *Bot) handleInfrastructure(ctx context.Context, query *tgbotapi.CallbackQuery, raw string) {
	chatID, userID := query.Message.Chat.ID, query.From.ID

	state, form, err := b.loadForm(ctx, userID)
	if err != nil {
		b.answerCallback(query.ID, "Ошибка, попробуйте позже")
		return
	}
	if state != StateCollectingInfrastructure {
		b.answerCallback(query.ID, "Эта кнопка больше не активна")
		return
	}

	if raw == infraDone {
		b.answerCallback(query.ID, "Принято")
		b.advance(ctx, chatID, userID, state, form)
		return
	}

	infra, ok := validInfrastructure(raw)
	if !ok {
		b.answerCallback(query.ID, "Неизвестный тип инфраструктуры")
		return
	}
	form.toggle(infra)
	if err := b.saveForm(ctx, userID, state, form); err != nil {
		b.answerCallback(query.ID, "Ошибка, попробуйте позже")
		return
	}
	b.answerCallback(query.ID, infra.Label())

	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, query.Message.MessageID, infrastructureKeyboard(form))
	if _, err := b.api.Request(edit); err != nil {
		b.logger.Warn("Failed to update keyboard", zap.Error(err), zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) handleReport(ctx context.Context, query *tgbotapi.CallbackQuery, rawID, rawType string) {
	chatID := query.Message.Chat.ID

	scenarioID, err := strconv.ParseInt(rawID, 10, 64)
	reportType := models.ReportType(rawType)
	if err != nil || !reportType.Valid() {
		b.answerCallback(query.ID, "Неизвестный отчет")
		return
	}
	b.answerCallback(query.ID, "⏳ Готовлю отчет...")

	r, err := b.backend.GenerateReport(ctx, scenarioID, reportType)
	if err != nil {
		b.logger.Error("Failed to generate report",
			zap.Error(err),
			zap.Int64("scenario_id", scenarioID),
			zap.String("report_type", rawType))
		b.sendErrorMessage(chatID, "Не удалось сформировать отчет. Попробуйте позже.")
		return
	}

	name, data, err := b.backend.Download(ctx, r.DownloadURL)
	if err != nil {
		b.logger.Error("Failed to download report",
			zap.Error(err),
			zap.Int64("report_id", r.ReportID))
		b.sendErrorMessage(chatID, "Не удалось загрузить отчет. Попробуйте позже.")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	doc.Caption = reportType.Label()
	b.send(doc)
}

func (b *Bot) sendScenario(chatID int64, s models.Scenario) {
	msg := tgbotapi.NewMessage(chatID, formatScenario(s))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.ReplyMarkup = reportKeyboard(s.ID)
	b.send(msg)
}

func (b *Bot) answerCallback(id, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		b.logger.Warn("Failed to answer callback", zap.Error(err), zap.String("callback_id", id))
	}
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.logger.Error("Failed to send message", zap.Error(err))
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) sendMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) sendErrorMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, "⚠️ "+text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send error message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}
