package log

import (
	"bytes"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
)

var level = INFO

type lineFormatter struct{}

func (f *lineFormatter) Format(entry *log.Entry) ([]byte, error) {
	var b *bytes.Buffer
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}

	b.WriteString(entry.Time.Format("2006/01/02 15:04:05"))
	b.WriteString(fmt.Sprintf(" |%.4s| ", entry.Level))
	b.WriteString(entry.Message)
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func init() {
	log.SetOutput(os.Stderr)
	log.SetLevel(log.DebugLevel)
	log.SetFormatter(&lineFormatter{})
}

func Infoln(format string, v ...any) {
	print(INFO, format, v...)
}

func Warnln(format string, v ...any) {
	print(WARNING, format, v...)
}

func Errorln(format string, v ...any) {
	print(ERROR, format, v...)
}

func Debugln(format string, v ...any) {
	print(DEBUG, format, v...)
}

func Fatalln(format string, v ...any) {
	log.Fatalf(format, v...)
}

func Level() LogLevel {
	return level
}

func SetLevel(newLevel LogLevel) {
	level = newLevel
}

func print(logLevel LogLevel, format string, v ...any) {
	if logLevel < level {
		return
	}

	payload := fmt.Sprintf(format, v...)
	switch logLevel {
	case INFO:
		log.Infoln(payload)
	case WARNING:
		log.Warnln(payload)
	case ERROR:
		log.Errorln(payload)
	case DEBUG:
		log.Debugln(payload)
	}
}
