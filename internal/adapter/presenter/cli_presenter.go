package presenter

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/YoshitsuguKoike/billrecon/internal/application/dto"
	"github.com/YoshitsuguKoike/billrecon/internal/application/port/output"
)

// CLIPresenter implements output.Presenter for human-readable terminal output
type CLIPresenter struct {
	output io.Writer
	style  styles
}

// NewCLIPresenter creates a new CLI presenter
func NewCLIPresenter(output io.Writer) output.Presenter {
	return &CLIPresenter{output: output, style: newStyles()}
}

// PresentSuccess prints the message followed by a rendering of data
func (p *CLIPresenter) PresentSuccess(message string, data interface{}) error {
	fmt.Fprintf(p.output, "%s\n\n", p.style.Title.Render("✓ "+message))
	p.render(data)
	return nil
}

// PresentError prints the error. It is shown once here, so nil is returned.
func (p *CLIPresenter) PresentError(err error) error {
	fmt.Fprintf(p.output, "%s\n", p.style.Error.Render("✗ Error: "+err.Error()))
	return nil
}

// PresentPartial prints what the run produced, then the error that stopped it
func (p *CLIPresenter) PresentPartial(err error, data interface{}) error {
	p.render(data)
	fmt.Fprintln(p.output)
	return p.PresentError(err)
}

func (p *CLIPresenter) render(data interface{}) {
	switch v := data.(type) {
	case *dto.AuditReport:
		p.presentAudit(v)
	case *dto.RepairReport:
		p.presentRepair(v)
	case *dto.GenerateReport:
		p.presentGenerate(v)
	case *dto.RateGeneration:
		p.presentRates([]dto.RateDTO{v.Rate})
		if v.Generation != nil {
			fmt.Fprintln(p.output)
			p.presentGenerate(v.Generation)
		}
	case *dto.LedgerListing:
		p.presentLedger(v)
	case []dto.RateDTO:
		p.presentRates(v)
	case *dto.RateDTO:
		p.presentRates([]dto.RateDTO{*v})
	case *dto.ImportReport:
		fmt.Fprintf(p.output, "Projects: %d\nTeam tasks: %d\nFeatures: %d\nRates: %d\n", v.Projects, v.TeamTasks, v.Features, v.Rates)
	case []dto.ReportInfo:
		p.presentReportList(v)
	case *dto.ReportDocument:
		fmt.Fprintf(p.output, "%s %s (%s)\n\n%s\n", v.Info.Kind, v.Info.ID, v.Info.StoragePath, string(v.Content))
	case []dto.LockInfo:
		p.presentLocks(v)
	case *dto.LockInfo:
		p.presentLocks([]dto.LockInfo{*v})
	case nil:
	default:
		fmt.Fprintf(p.output, "%+v\n", data)
	}
}

func (p *CLIPresenter) section(title string) {
	fmt.Fprintf(p.output, "%s\n", p.style.Section.Render(title))
}

func (p *CLIPresenter) row(label string, value interface{}) {
	fmt.Fprintf(p.output, "  %s%v\n", p.style.Label.Render(label), value)
}

func (p *CLIPresenter) presentAudit(r *dto.AuditReport) {
	for _, s := range []dto.KindSection{r.TeamTasks, r.Features} {
		p.section(s.Kind)
		if s.Error != "" {
			p.row("error", p.style.Error.Render(s.Error))
		}
		p.row("total", s.Total)
		p.row("with hours", s.WithHours)
		p.row("without hours", s.WithoutHours)
		p.row("finished with hours", s.FinishedWithHours)
		p.row("finished, no hours", p.count(s.FinishedWithoutHours))
		p.row("open with hours", p.count(s.UnfinishedWithHours))
		p.row("by status", formatCounts(s.ByStatus))
		for _, fe := range s.FetchErrors {
			p.row("fetch error", p.style.Warning.Render(fe.Message))
		}
		for _, sample := range s.Samples {
			fmt.Fprintf(p.output, "    %s\n", p.style.Muted.Render(
				fmt.Sprintf("%s [%s] %gh %s", sample.ID, sample.Status, sample.ActualHours, sample.Assignee)))
		}
		fmt.Fprintln(p.output)
	}

	p.section("rates")
	if r.Rates.Error != "" {
		p.row("error", p.style.Error.Render(r.Rates.Error))
	}
	p.row("people", r.Rates.Total)
	p.row("billable", r.Rates.Billable)

	p.section("ledger " + r.Ledger.Period)
	if r.Ledger.Error != "" {
		p.row("error", p.style.Error.Render(r.Ledger.Error))
	}
	p.row("records", r.Ledger.Records)
	p.row("amount", p.style.Amount.Render(formatAmount(r.Ledger.Amount)))
	fmt.Fprintln(p.output)

	if r.CanGenerate {
		fmt.Fprintf(p.output, "%s\n", p.style.Success.Render("Ready to generate"))
	} else {
		fmt.Fprintf(p.output, "%s\n", p.style.Warning.Render("Generation would create nothing"))
	}
	for _, reason := range r.Reasons {
		fmt.Fprintf(p.output, "  - %s\n", reason)
	}
}

func (p *CLIPresenter) presentRepair(r *dto.RepairReport) {
	p.section("team-task")
	p.row("hours set", r.TeamTasks.HoursSet)
	p.row("status set", r.TeamTasks.StatusSet)
	p.section("feature")
	p.row("hours set", r.Features.HoursSet)
	p.row("status set", r.Features.StatusSet)
	fmt.Fprintln(p.output)

	for _, item := range r.Repairs {
		fmt.Fprintf(p.output, "  %s %s: %s\n", item.Kind, item.ID, item.Change)
	}
	p.presentErrors(append(append([]dto.ItemError{}, r.FetchErrors...), r.Errors...))
	fmt.Fprintf(p.output, "\n%s\n", p.style.Muted.Render("run "+r.RunID))
}

func (p *CLIPresenter) presentGenerate(r *dto.GenerateReport) {
	title := "period " + r.Period
	if r.DryRun {
		title += " (preview)"
	}
	p.section(title)

	var total float64
	for _, s := range r.PerPerson {
		p.row(s.Name, fmt.Sprintf("%d record(s)  %s", s.Created, p.style.Amount.Render(formatAmount(s.Amount))))
		total += s.Amount
	}
	p.row("total", p.style.Amount.Render(formatAmount(total)))
	fmt.Fprintln(p.output)

	for _, rec := range r.Records {
		fmt.Fprintf(p.output, "  %-24s %-28s %6gh x %-8g %s\n",
			rec.SourceKey, truncate(rec.Title, 28), rec.Hours, rec.RatePerHour, formatAmount(rec.Amount))
	}

	p.row("already billed", r.Skipped.AlreadyBilled)
	p.row("not finished", r.Skipped.NotFinished)
	p.row("no hours", r.Skipped.NoHours)
	for _, note := range r.Notes {
		fmt.Fprintf(p.output, "  %s\n", p.style.Warning.Render(note))
	}
	p.presentErrors(r.Errors)
	fmt.Fprintf(p.output, "\n%s\n", p.style.Muted.Render("run "+r.RunID))
}

func (p *CLIPresenter) presentLedger(l *dto.LedgerListing) {
	p.section("ledger " + l.Period)
	for _, rec := range l.Records {
		fmt.Fprintf(p.output, "  %-20s %-24s %6gh x %-8g %s\n",
			truncate(rec.Person, 20), rec.SourceKey, rec.Hours, rec.RatePerHour, formatAmount(rec.Amount))
	}
	p.row("records", len(l.Records))
	p.row("total", p.style.Amount.Render(formatAmount(l.Total)))
}

func (p *CLIPresenter) presentRates(rates []dto.RateDTO) {
	p.section("hourly rates")
	for _, r := range rates {
		value := formatAmount(r.RatePerHour)
		if r.RatePerHour <= 0 {
			value = p.style.Warning.Render(value + " (not billable)")
		}
		p.row(r.PersonName, fmt.Sprintf("%s  %s", value, p.style.Muted.Render(r.PersonID)))
	}
}

func (p *CLIPresenter) presentLocks(locks []dto.LockInfo) {
	p.section("run locks")
	for _, l := range locks {
		state := p.style.Success.Render("active")
		if l.Expired {
			state = p.style.Warning.Render("expired")
		}
		fmt.Fprintf(p.output, "  %-24s %s:%d  expires %s  %s\n",
			l.LockID, l.Hostname, l.PID, l.ExpiresAt.Format("2006-01-02 15:04:05"), state)
	}
	if len(locks) == 0 {
		fmt.Fprintf(p.output, "  %s\n", p.style.Muted.Render("no active locks"))
	}
}

func (p *CLIPresenter) presentReportList(list []dto.ReportInfo) {
	for _, r := range list {
		fmt.Fprintf(p.output, "  %s  %-8s %-8s %s\n", r.ArchivedAt.Format("2006-01-02 15:04:05"), r.Kind, r.Period, r.ID)
	}
	if len(list) == 0 {
		fmt.Fprintf(p.output, "  %s\n", p.style.Muted.Render("no reports"))
	}
}

func (p *CLIPresenter) presentErrors(errs []dto.ItemError) {
	if len(errs) == 0 {
		return
	}
	fmt.Fprintf(p.output, "\n%s\n", p.style.Error.Render(fmt.Sprintf("%d error(s)", len(errs))))
	for _, e := range errs {
		subject := strings.TrimSpace(strings.Join([]string{e.Kind, e.ID, e.ProjectID, e.Person}, " "))
		fmt.Fprintf(p.output, "  %s: %s\n", subject, e.Message)
	}
}

// count highlights non-zero violation counters
func (p *CLIPresenter) count(n int) string {
	if n > 0 {
		return p.style.Warning.Render(fmt.Sprint(n))
	}
	return fmt.Sprint(n)
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func formatCounts(m map[string]int) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(parts, " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
