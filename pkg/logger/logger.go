package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones para el logger.
type Config struct {
	Env    string    // development -> consola legible; otro -> JSON
	Level  string    // trace, debug, info, warn, error
	Output io.Writer // opcional; por defecto os.Stdout
}

// Logger wrapper sobre zerolog para inyección y consistencia.
// El valor cero es utilizable y no escribe nada.
type Logger struct {
	zl zerolog.Logger
}

// New crea un logger estructurado. En development usa salida legible; en otros entornos JSON.
func New(cfg Config) *Logger {
	var w io.Writer = os.Stdout
	if cfg.Output != nil {
		w = cfg.Output
	}
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	zl := zerolog.New(w).Level(parseLevel(cfg.Level)).With().Timestamp().Logger()

	// Redirigir el logger global de zerolog para librerías que lo usen
	log.Logger = zl

	return &Logger{zl: zl}
}

// Nop devuelve un logger que descarta todo (tests).
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func parseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Trace, Debug, Info, Warn, Error delegados a zerolog.
func (l *Logger) Trace() *zerolog.Event { return l.zerolog().Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.zerolog().Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zerolog().Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zerolog().Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zerolog().Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zerolog().Fatal() }

// Component crea un sublogger con el campo component fijo.
func (l *Logger) Component(name string) *Logger {
	return &Logger{zl: l.zerolog().With().Str("component", name).Logger()}
}

// With crea un contexto para sublogger con campos fijos.
func (l *Logger) With() zerolog.Context {
	return l.zerolog().With()
}

// Zerolog devuelve el logger interno por si se necesita la API directa.
func (l *Logger) Zerolog() zerolog.Logger {
	return *l.zerolog()
}

var nop = zerolog.Nop()

// zerolog tolera receptor nil para que los casos de uso no exijan logger.
func (l *Logger) zerolog() *zerolog.Logger {
	if l == nil {
		return &nop
	}
	return &l.zl
}
