package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	appErrors "github.com/noah-isme/sternfield-timetable/pkg/errors"
)

// @title Sternfield Timetable API
// @version 1.0.0
// @description Timetable lookups, teacher schedules and lesson reminders
// @BasePath /api/v1
// @schemes http

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, appErrors.FromError(err).Message)
		os.Exit(1)
	}
}
