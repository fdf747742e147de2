package logger

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// Init configures the shared logger for the given environment.
func Init(env string) {
	log.SetOutput(os.Stdout)

	if env == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
		log.SetLevel(logrus.InfoLevel)
		return
	}

	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetLevel(logrus.DebugLevel)
}

func Debug(msg string, args ...any) { entry(args).Debug(msg) }
func Info(msg string, args ...any)  { entry(args).Info(msg) }
func Warn(msg string, args ...any)  { entry(args).Warn(msg) }
func Error(msg string, args ...any) { entry(args).Error(msg) }
func Fatal(msg string, args ...any) { entry(args).Fatal(msg) }

// entry turns "key", value pairs into fields. A trailing value without a key
// is logged as the error field.
func entry(args []any) *logrus.Entry {
	return logrus.NewEntry(log).WithFields(fields(args))
}

func fields(args []any) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i < len(args); i++ {
		key, ok := args[i].(string)
		if !ok || i+1 >= len(args) {
			f[logrus.ErrorKey] = fmt.Sprint(args[i])
			continue
		}
		f[key] = args[i+1]
		i++
	}
	return f
}
