package main

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oisee/cpc-z80/pkg/cpu"
)

// loggingPorts traces port traffic at debug level on top of another bus.
type loggingPorts struct {
	next cpu.Ports
	log  *logrus.Entry
}

func newLoggingPorts(next cpu.Ports, logger *logrus.Logger) *loggingPorts {
	if next == nil {
		next = cpu.NullPorts{}
	}
	return &loggingPorts{next: next, log: logger.WithField("component", "ports")}
}

func (p *loggingPorts) In(port uint16) uint8 {
	v := p.next.In(port)
	if p.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		p.log.WithFields(logrus.Fields{"port": fmt.Sprintf("%04X", port), "value": fmt.Sprintf("%02X", v)}).Debug("in")
	}
	return v
}

func (p *loggingPorts) Out(port uint16, v uint8) {
	if p.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		p.log.WithFields(logrus.Fields{"port": fmt.Sprintf("%04X", port), "value": fmt.Sprintf("%02X", v)}).Debug("out")
	}
	p.next.Out(port, v)
}
