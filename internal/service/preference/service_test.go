package preference

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinicdesk/internal/storage"
	apperrors "github.com/jwalitptl/clinicdesk/pkg/errors"
	"github.com/jwalitptl/clinicdesk/pkg/logger"
	"github.com/jwalitptl/clinicdesk/pkg/metrics"
	"github.com/jwalitptl/clinicdesk/pkg/validator"
)

func TestLanguage(t *testing.T) {
	ctx := context.Background()
	svc := NewService(storage.NewStore(storage.NewMemoryBackend(), logger.Nop(), metrics.NewNop()), validator.New())

	lang, err := svc.Language(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultLanguage, lang)

	set, err := svc.SetLanguage(ctx, " FR ")
	require.NoError(t, err)
	assert.Equal(t, "fr", set)

	lang, err = svc.Language(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fr", lang)

	_, err = svc.SetLanguage(ctx, "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
