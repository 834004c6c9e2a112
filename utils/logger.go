package utils

import (
	"fmt"
	"time"
)

// ANSI colour codes make terminal output easier to read while debugging
const (
	reset  = "\033[0m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	blue   = "\033[34m"
	cyan   = "\033[36m"
)

func ts() string {
	return time.Now().Format("15:04:05")
}

func Info(format string, a ...interface{}) {
	fmt.Printf("%s[%s] [INFO]  %s%s\n", blue, ts(), fmt.Sprintf(format, a...), reset)
}

func Success(format string, a ...interface{}) {
	fmt.Printf("%s[%s] [OK]    %s%s\n", green, ts(), fmt.Sprintf(format, a...), reset)
}

func Warn(format string, a ...interface{}) {
	fmt.Printf("%s[%s] [WARN]  %s%s\n", yellow, ts(), fmt.Sprintf(format, a...), reset)
}

func Error(format string, a ...interface{}) {
	fmt.Printf("%s[%s] [ERROR] %s%s\n", red, ts(), fmt.Sprintf(format, a...), reset)
}

// Request returns a logger whose lines carry the request ID, so concurrent
// scrape requests can be told apart in the output.
type Request struct {
	ID string
}

func (r Request) Info(format string, a ...interface{}) {
	Info("[%s] %s", r.ID, fmt.Sprintf(format, a...))
}

func (r Request) Success(format string, a ...interface{}) {
	Success("[%s] %s", r.ID, fmt.Sprintf(format, a...))
}

func (r Request) Warn(format string, a ...interface{}) {
	Warn("[%s] %s", r.ID, fmt.Sprintf(format, a...))
}

func (r Request) Error(format string, a ...interface{}) {
	Error("[%s] %s", r.ID, fmt.Sprintf(format, a...))
}

func Section(title string) {
	fmt.Printf("\n%s[%s] ══════════ %s ══════════%s\n\n", cyan, ts(), title, reset)
}
