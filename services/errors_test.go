package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestClassify(t *testing.T) {
	assert.NoError(t, classify("x", nil))
	assert.ErrorIs(t, classify("round", gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, classify("round", gorm.ErrForeignKeyViolated), ErrNotFound)

	boom := errors.New("connection refused")
	err := classify("source", boom)
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, boom, "cause stays reachable")
	assert.NotContains(t, err.Error(), "connection refused", "cause is not leaked in the message")
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, "invalid", KindOf(invalidf("source", "bad")))
	assert.Equal(t, "not_found", KindOf(notFound("round", nil)))
	assert.Equal(t, "storage", KindOf(storageFailure("db", errors.New("x"))))
	assert.Equal(t, "invalid", KindOf(fmt.Errorf("%w: unknown style", ErrInvalid)))
	assert.Equal(t, "", KindOf(errors.New("plain")))
	assert.Equal(t, "", KindOf(nil))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "round: not found", notFound("round", nil).Error())
	assert.Equal(t, "evidence: why_relevant required", invalidf("evidence", "%s required", "why_relevant").Error())
	assert.Equal(t, "invalid input", (&Error{Kind: ErrInvalid}).Error())
}
