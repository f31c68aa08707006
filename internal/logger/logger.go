package logger

import (
	"encoding/json"
	"log"
	"os"
)

type line struct {
	Level  string         `json:"level"`
	Msg    string         `json:"msg"`
	Fields map[string]any `json:"fields,omitempty"`
}

func Init() {
	log.SetOutput(os.Stdout)
	log.SetFlags(0)
	emit("INFO", "logger initialized", nil)
}

func emit(level, msg string, fields map[string]any) {
	data, err := json.Marshal(line{Level: level, Msg: msg, Fields: fields})
	if err != nil {
		// fields contained something unmarshalable; keep the message
		data, _ = json.Marshal(line{Level: level, Msg: msg})
	}
	log.Print(string(data))
}

func Info(msg string, fields map[string]any) {
	emit("INFO", msg, fields)
}

func Warn(msg string, fields map[string]any) {
	emit("WARN", msg, fields)
}

func Error(msg string, fields map[string]any) {
	emit("ERROR", msg, fields)
}

func Fatal(msg string, fields map[string]any) {
	emit("FATAL", msg, fields)
	os.Exit(1)
}
