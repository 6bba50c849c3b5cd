package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/Eursukkul/salon-booking-service/internal/repository"
)

const (
	ConfirmationRemote = "remote"
	ConfirmationLocal  = "local"
)

// ConfirmationGenerator issues a human-shareable booking code inside the submission transaction.
type ConfirmationGenerator interface {
	Generate(ctx context.Context, tx *gorm.DB) (string, error)
}

// NewConfirmationGenerator picks the database function by default and the local
// generator when source is "local".
func NewConfirmationGenerator(source string, repo repository.BookingRepository) ConfirmationGenerator {
	if source == ConfirmationLocal {
		return NewLocalConfirmation(time.Now)
	}
	return &remoteConfirmation{repo: repo}
}

type remoteConfirmation struct {
	repo repository.BookingRepository
}

func (g *remoteConfirmation) Generate(ctx context.Context, tx *gorm.DB) (string, error) {
	number, err := g.repo.GenerateConfirmationNumber(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("generate confirmation number: %w", err)
	}
	if number == "" {
		return "", fmt.Errorf("generate confirmation number: empty result")
	}
	return number, nil
}

const confirmationAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// LocalConfirmation builds "BK" + last six digits of the millisecond clock + two random characters.
type LocalConfirmation struct {
	now func() time.Time
}

func NewLocalConfirmation(now func() time.Time) *LocalConfirmation {
	if now == nil {
		now = time.Now
	}
	return &LocalConfirmation{now: now}
}

func (g *LocalConfirmation) Generate(context.Context, *gorm.DB) (string, error) {
	ms := strconv.FormatInt(g.now().UnixMilli(), 10)
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	suffix := []byte{
		confirmationAlphabet[rand.IntN(len(confirmationAlphabet))],
		confirmationAlphabet[rand.IntN(len(confirmationAlphabet))],
	}
	return "BK" + ms + string(suffix), nil
}
