package orchestrator

import (
	log "github.com/sirupsen/logrus"
)

// LogDisplay renders the live sign through the logger, only when it changes.
type LogDisplay struct {
	log  log.FieldLogger
	text string
	pct  int
}

func NewLogDisplay(logger log.FieldLogger) *LogDisplay {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &LogDisplay{log: logger}
}

func (d *LogDisplay) Show(text string, percent int) {
	if text == d.text && percent == d.pct {
		return
	}
	d.text, d.pct = text, percent
	if text == "" {
		d.log.Debug("display cleared")
		return
	}
	d.log.WithFields(log.Fields{"sign": text, "score": percent}).Info("sign")
}
