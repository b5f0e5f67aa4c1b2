package validator

import (
	"log"
	"regexp"
	"strings"

	"rentease_backend/internal/models"
	"rentease_backend/internal/workflow"

	"github.com/go-playground/validator/v10"
)

var timeOfDay = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// registerCustomRules регистрирует правила предметной области
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Без правила приложение запускать нельзя
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-role", validateUserRole)
	mustRegister("is-signup-role", validateSignupRole)
	mustRegister("is-booking-status", validateBookingStatus)
	mustRegister("is-verification-status", validateVerificationStatus)
	mustRegister("is-suspension-duration", validateSuspensionDuration)
	mustRegister("is-report-target", validateReportTarget)
	mustRegister("is-time-of-day", validateTimeOfDay)
	mustRegister("notblank", validateNotBlank)
}

// Пустые значения пропускаем везде: для них есть 'required'

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.UserRole(value).Valid()
}

// Админа нельзя зарегистрировать через публичную форму
func validateSignupRole(fl validator.FieldLevel) bool {
	switch models.UserRole(fl.Field().String()) {
	case "", models.UserRoleStudent, models.UserRoleAgent:
		return true
	}
	return false
}

func validateBookingStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.BookingStatus(value).Valid()
}

func validateVerificationStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.VerificationStatus(value).Valid()
}

func validateSuspensionDuration(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || workflow.SuspensionDuration(value).Valid()
}

func validateReportTarget(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.ReportTargetType(value).Valid()
}

func validateTimeOfDay(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || timeOfDay.MatchString(value)
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
