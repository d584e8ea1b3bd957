package logger_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gudang-api/pkg/logger"
)

func TestNew_FiltraPorNivel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Output: &buf, Level: "warn"})

	log.Info().Msg("no debe salir")
	log.Warn().Str("product_id", "p1").Msg("stock bajo")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "stock bajo", entry["message"])
	assert.Equal(t, "p1", entry["product_id"])
}

func TestNew_NivelInvalidoUsaInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Output: &buf, Level: "ruidoso"})

	log.Debug().Msg("oculto")
	log.Info().Msg("visible")

	assert.NotContains(t, buf.String(), "oculto")
	assert.Contains(t, buf.String(), "visible")
}

func TestLogger_ReceptorNilNoEntraEnPanico(t *testing.T) {
	var log *logger.Logger
	assert.NotPanics(t, func() {
		log.Info().Str("k", "v").Msg("sin logger")
		log.Error().Msg("sin logger")
		log.Component("ledger").Warn().Msg("sin logger")
	})
	assert.Equal(t, zerolog.Disabled, log.Zerolog().GetLevel())
}

func TestComponent_AgregaCampo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Output: &buf, Level: "info"}).Component("stock_ledger")

	log.Info().Msg("transacción registrada")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "stock_ledger", entry["component"])
}

func TestNop_NoEscribe(t *testing.T) {
	log := logger.Nop()
	assert.Equal(t, zerolog.Disabled, log.Zerolog().GetLevel())
	assert.NotPanics(t, func() { log.Error().Msg("descartado") })
	assert.Nil(t, log.Info())
}
