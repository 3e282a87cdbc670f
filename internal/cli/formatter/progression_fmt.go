package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/staircase/internal/app"
	"github.com/alexanderramin/staircase/internal/contract"
	"github.com/alexanderramin/staircase/internal/domain"
)

// FormatSnapshot renders a user's position: the active day in a box, then
// every stage with its lock state.
func FormatSnapshot(s *contract.Snapshot) string {
	var b strings.Builder

	day := s.ActiveDay
	lines := []string{
		fmt.Sprintf("%s  %s", Bold(s.ActiveStage.Title), Dim(string(s.ActiveStage.Kind))),
		fmt.Sprintf("Day %d: %s", day.DayNumber, day.Title),
		DayStatusPill(day.Status),
	}
	if day.Status == domain.DayActive {
		lines = append(lines, ProgressBar(day.CompletionPct, 20))
	}
	if day.StartedAt != nil {
		lines = append(lines, Dim("started "+HumanTimestamp(*day.StartedAt)))
	}
	b.WriteString(RenderBox("Today", strings.Join(lines, "\n")))
	b.WriteString("\n\n")

	b.WriteString(Header("Stages"))
	b.WriteString("\n")
	rows := make([][]string, 0, len(s.Stages))
	for _, st := range s.Stages {
		unlocked := ""
		if st.UnlockedAt != nil {
			unlocked = HumanTimestamp(*st.UnlockedAt)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", st.SortOrder),
			st.Title,
			string(st.Kind),
			StageLock(st.Unlocked, st.Completed, st.StageID == s.ActiveStage.StageID),
			Dim(unlocked),
		})
	}
	b.WriteString(RenderTable([]string{"#", "STAGE", "KIND", "STATE", "UNLOCKED"}, rows))

	if !s.ClosureCompleted {
		b.WriteString("\n")
		b.WriteString(Dim("Closure track open: later stages stay locked until it completes."))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatClosureStatus renders the closure track checklist.
func FormatClosureStatus(c *contract.ClosureStatus) string {
	var b strings.Builder
	b.WriteString(Header("Closure"))
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("  Actions     %s\n", check(c.ActionsTotal > 0 && c.ActionsDone == c.ActionsTotal,
		fmt.Sprintf("%d/%d done", c.ActionsDone, c.ActionsTotal))))
	agreement := "not signed"
	if c.Signed {
		agreement = "signed"
	}
	b.WriteString(fmt.Sprintf("  Agreement   %s\n", check(c.Signed, agreement)))

	safety := string(c.SafetyCheck)
	if safety == "" {
		safety = "not recorded"
	}
	b.WriteString(fmt.Sprintf("  Safety      %s\n", check(c.SafetyCheck == domain.SafetySafe, safety)))

	b.WriteString("\n")
	if c.Completed {
		b.WriteString(StyleGreen.Render("Closure complete."))
		if c.NextStageUnlockedAt != nil {
			b.WriteString(" " + Dim("Next stage unlocked "+HumanTimestamp(*c.NextStageUnlockedAt)+"."))
		}
	} else {
		b.WriteString(StyleYellow.Render("Closure incomplete."))
	}
	b.WriteString("\n")
	return b.String()
}

func check(ok bool, text string) string {
	if ok {
		return StyleGreen.Render("✔ " + text)
	}
	return StyleDim.Render("○ " + text)
}

// FormatDayProgress renders the result of a day completion command.
func FormatDayProgress(p *domain.DayProgress) string {
	return fmt.Sprintf("Day %s: %s (%d%%)\n", p.DayID, DayStatusPill(p.Status), p.CompletionPct)
}

func FormatImportResult(r *app.CatalogImportResult) string {
	var b strings.Builder
	b.WriteString(StyleGreen.Render(fmt.Sprintf("Imported %d stages, %d days, %d closure actions.",
		r.StageCount, r.DayCount, r.ActionCount)))
	b.WriteString("\n")
	b.WriteString(formatWarnings(r.Warnings))
	return b.String()
}

func FormatValidation(v *app.CatalogValidation) string {
	var b strings.Builder
	if v.Valid() {
		b.WriteString(StyleGreen.Render("Catalog is valid."))
		b.WriteString("\n")
	} else {
		b.WriteString(StyleRed.Render(fmt.Sprintf("Catalog has %d errors:", len(v.Errors))))
		b.WriteString("\n")
		for _, err := range v.Errors {
			b.WriteString("  - " + err.Error() + "\n")
		}
	}
	b.WriteString(formatWarnings(v.Warnings))
	return b.String()
}

func formatWarnings(warnings []string) string {
	var b strings.Builder
	for _, w := range warnings {
		b.WriteString(StyleYellow.Render("warning: "+w) + "\n")
	}
	return b.String()
}
