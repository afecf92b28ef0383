package logger

import (
	"os"
	"strings"

	"github.com/gookit/slog"
	"github.com/gookit/slog/handler"
)

// Fields 는 구조화 로그에 붙는 top-level 키 모음이다.
type Fields map[string]any

// Log 는 프로세스 전역 로거다. Init 이 호출되기 전에도 info 레벨로 동작한다.
var Log = New("info")

// Init 은 주어진 레벨로 전역 로거를 교체한다. 알 수 없는 레벨은 info 로 취급한다.
func Init(level string) {
	Log = New(level)
}

// New 는 stdout 으로 JSON 한 줄씩 출력하는 gookit/slog 로거를 만든다.
func New(level string) *slog.Logger {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		level = "info"
	}
	logLevel := slog.LevelByName(level)

	var levels slog.Levels
	for _, lv := range slog.AllLevels {
		if lv <= logLevel {
			levels = append(levels, lv)
		}
	}

	h := handler.NewConsoleHandler(levels)
	h.SetFormatter(newFormatter())
	return slog.NewWithHandlers(h)
}

func newFormatter() *slog.JSONFormatter {
	return slog.NewJSONFormatter(func(f *slog.JSONFormatter) {
		f.Fields = []string{
			slog.FieldKeyDatetime,
			slog.FieldKeyLevel,
			slog.FieldKeyMessage,
		}
		f.Aliases = slog.StringMap{
			slog.FieldKeyDatetime: "datetime",
			slog.FieldKeyLevel:    "level",
			slog.FieldKeyMessage:  "message",
		}
		f.TimeFormat = "2006-01-02T15:04:05"
	})
}

// withServiceName fills service_name from SERVICE_NAME when the caller did not.
func withServiceName(fields Fields) Fields {
	if fields == nil {
		fields = Fields{}
	}
	if _, ok := fields["service_name"]; !ok {
		if sn := os.Getenv("SERVICE_NAME"); sn != "" {
			fields["service_name"] = sn
		}
	}
	return fields
}

func InfoWithFields(msg string, fields Fields) {
	Log.WithFields(slog.M(withServiceName(fields))).Info(msg)
}

func WarnWithFields(msg string, fields Fields) {
	Log.WithFields(slog.M(withServiceName(fields))).Warn(msg)
}

func ErrorWithFields(msg string, fields Fields) {
	Log.WithFields(slog.M(withServiceName(fields))).Error(msg)
}
