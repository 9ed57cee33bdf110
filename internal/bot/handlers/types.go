package handlers

import (
	"github.com/vladimiradmaev/diabetes-tracker/internal/bot/menus"
	"github.com/vladimiradmaev/diabetes-tracker/internal/interfaces"
)

// Sender is satisfied by *tgbotapi.BotAPI
type Sender = menus.Sender

// Dependencies holds all service dependencies for handlers
type Dependencies struct {
	UserService    interfaces.UserServiceInterface
	CalculationSvc interfaces.CalculationServiceInterface
	BloodSugarSvc  interfaces.BloodSugarServiceInterface
	PresetSvc      interfaces.MealPresetServiceInterface
}
