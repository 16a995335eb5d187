package logger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/odpf/salt/log"
	"github.com/sirupsen/logrus"

	"github.com/odpf/chronosctl/config"
)

type plainFormatter int

func (*plainFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	if len(entry.Data) == 0 {
		return []byte(fmt.Sprintf("%s\n", entry.Message)), nil
	}
	keys := make([]string, 0, len(entry.Data))
	for key := range entry.Data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var data string
	for _, key := range keys {
		data += fmt.Sprintf("%s: %v ", key, entry.Data[key])
	}
	return []byte(fmt.Sprintf("%s %s\n", entry.Message, data)), nil
}

// NewDefaultLogger initializes plain logger
func NewDefaultLogger() log.Logger {
	return NewClientLogger(config.LogLevelInfo)
}

// NewClientLogger initializes a plain logger with the given level,
// falling back to info when the level is empty
func NewClientLogger(level string) log.Logger {
	if level == "" {
		level = config.LogLevelInfo
	}
	return log.NewLogrus(
		log.LogrusWithLevel(strings.ToLower(level)),
		log.LogrusWithFormatter(new(plainFormatter)),
	)
}
