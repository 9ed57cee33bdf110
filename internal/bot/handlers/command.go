package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/diabetes-tracker/internal/database"
	"github.com/vladimiradmaev/diabetes-tracker/internal/logger"
)

// CommandHandler handles bot commands
type CommandHandler struct {
	*dialog
}

// Handle processes a command message
func (h *CommandHandler) Handle(ctx context.Context, message *tgbotapi.Message, user *database.User) error {
	logger.WithContext(ctx).Info("Handling command", "command", message.Command())

	switch message.Command() {
	case "start", "cancel":
		return h.mainMenu(user, message.Chat.ID)
	case "dose":
		return h.startDose(user, message.Chat.ID)
	case "history":
		return h.showHistory(ctx, user, message.Chat.ID)
	case "help":
		return h.handleHelp(message.Chat.ID)
	default:
		return h.send(message.Chat.ID, "Неизвестная команда. Используйте /help для просмотра доступных команд.", nil)
	}
}

// handleHelp handles the /help command
func (h *CommandHandler) handleHelp(chatID int64) error {
	text := `Доступные команды:
/start - Показать главное меню
/dose - Рассчитать дозу инсулина
/history - Последние расчёты
/cancel - Отменить текущее действие
/help - Показать это сообщение

Как рассчитывается доза:
1. Инсулин на еду = углеводы ÷ коэффициент (1 ед на N г)
2. Коррекция берётся из таблицы по уровню сахара (ммоль/л × 18 = мг/дл)
3. Перед сном используется более мягкая таблица коррекции, без инсулина на еду`

	return h.send(chatID, text, nil)
}
