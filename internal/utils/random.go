package utils

import (
	"math/rand"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/quattrodue/shift-planner/backend/internal/domain"
)

var commonFirstNames = []string{
	"Marco", "Luca", "Giulia", "Francesca", "Alessandro", "Chiara",
	"Andrea", "Martina", "Davide", "Sara", "Matteo", "Elena",
	"Simone", "Valentina", "Federico", "Alice", "Giorgio", "Silvia",
	"Paolo", "Elisa",
}

var commonLastNames = []string{
	"Rossi", "Russo", "Ferrari", "Esposito", "Bianchi", "Romano",
	"Colombo", "Ricci", "Marino", "Greco", "Bruno", "Gallo",
	"Conti", "De Luca", "Mancini", "Costa", "Giordano", "Rizzo",
	"Lombardi", "Moretti",
}

func GenerateRandomFullName() string {
	first := commonFirstNames[rand.Intn(len(commonFirstNames))]
	last := commonLastNames[rand.Intn(len(commonLastNames))]
	return first + " " + last
}

var digits = "0123456789"

// GenerateUsernameFromFullName builds a plausible login from a full name,
// e.g. "Marco Rossi" becomes something like "mrossi42".
func GenerateUsernameFromFullName(fullName string) string {
	parts := strings.Fields(strings.ToLower(fullName))
	username := ""
	if len(parts) > 0 {
		username += parts[0][:1]
	}
	if len(parts) > 1 {
		username += strings.Join(parts[1:], "")
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

// GenerateRandomTeam picks one of the rota teams used by the predefined
// rotation.
func GenerateRandomTeam(teams []string) string {
	return teams[rand.Intn(len(teams))]
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	password := make([]rune, length)
	for i := range password {
		password[i] = letters[rand.Intn(len(letters))]
	}
	return string(password)
}

func GenerateRandomUser(password string, emailDomainName string, teams []string) (*domain.User, error) {
	fullName := GenerateRandomFullName()
	username := GenerateUsernameFromFullName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         domain.RoleWorker,
		Team:         GenerateRandomTeam(teams),
	}

	return user, nil
}

var requestableExceptionTypes = []domain.ExceptionType{
	domain.ExceptionVacation,
	domain.ExceptionSickLeave,
	domain.ExceptionPermit,
	domain.ExceptionTraining,
	domain.ExceptionPersonalLeave,
	domain.ExceptionShiftSwap,
}

// GenerateRandomException produces a pending exception for the user on a
// random day within the next month.
func GenerateRandomException(user *domain.User, originalShiftType string) *domain.TurnException {
	day := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, rand.Intn(30)+1)
	excType := requestableExceptionTypes[rand.Intn(len(requestableExceptionTypes))]

	return &domain.TurnException{
		UserID:            user.ID,
		Date:              day,
		Type:              excType,
		OriginalShiftType: originalShiftType,
		Status:            domain.ExceptionPending,
		Note:              "richiesta generata per il collaudo",
	}
}
