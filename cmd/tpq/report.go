package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/tpq-attendance/internal/model"
	"github.com/nhle/tpq-attendance/internal/report"
)

// runReport prints the class report, or one student's, for a month.
func runReport(cmd *cobra.Command, _ []string) error {
	r := model.MonthRange(time.Now())
	if month != "" {
		var err error
		if r, err = model.ParseMonth(month); err != nil {
			return err
		}
	}

	cfg, h, _, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer h.Close()

	s, err := h.Get()
	if err != nil {
		return err
	}
	b := report.NewBuilder(s)
	out := cmd.OutOrStdout()

	if student != "" {
		sr, err := b.Student(cmd.Context(), student, r)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, report.FormatStudent(cfg.School.Name, sr))
		return nil
	}

	cr, err := b.Class(cmd.Context(), r)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, report.FormatClass(cfg.School.Name, cr))
	return nil
}
