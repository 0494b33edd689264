package monitor

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/AaronWong1999/silver-calculator-page/config"
	"github.com/AaronWong1999/silver-calculator-page/journal"
	"github.com/AaronWong1999/silver-calculator-page/market"
	"github.com/AaronWong1999/silver-calculator-page/notify"
	"github.com/AaronWong1999/silver-calculator-page/pkg/logger"
	"github.com/AaronWong1999/silver-calculator-page/risk"
)

var (
	runEntropyMu sync.Mutex
	runEntropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
)

// newRunID returns a ULID for one monitoring run. ULIDs sort by
// generation time, so journal rows keyed by run ID come back in run
// order from a plain index scan.
func newRunID() string {
	runEntropyMu.Lock()
	defer runEntropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now().UTC()), runEntropy).String()
}

// Runner wires the collaborators around the pure risk core for one
// stateless monitoring run.
type Runner struct {
	cfg      *config.Config
	source   market.SpotSource
	notifier notify.Notifier
	journal  journal.Journal // nil disables journaling
}

func New(cfg *config.Config, source market.SpotSource, notifier notify.Notifier, j journal.Journal) *Runner {
	return &Runner{cfg: cfg, source: source, notifier: notifier, journal: j}
}

// Result is what one completed run produced. Suppressed counts alerts
// that fired but were withheld from the mail because the journal shows
// the same kind+ladder inside the suppression window.
type Result struct {
	RunID      string
	Gold       decimal.Decimal
	Silver     decimal.Decimal
	Alerts     []risk.Alert
	Suppressed int
	Notified   bool
}

// Run executes one evaluation: fetch both quotes, rebuild each ladder's
// snapshot, compute thresholds, evaluate the alert rules, journal and
// notify. A fetch failure aborts before any rule runs. A degenerate
// ladder only silences that ladder's checks; everything else proceeds.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	runID := newRunID()

	gold, err := r.source.GetSpot(ctx, market.Gold)
	if err != nil {
		return Result{}, fmt.Errorf("fetch gold price: %w", err)
	}
	silver, err := r.source.GetSpot(ctx, market.Silver)
	if err != nil {
		return Result{}, fmt.Errorf("fetch silver price: %w", err)
	}
	logger.Infof("run %s: gold=%s silver=%s", runID, gold.Price, silver.Price)

	in := risk.EvalInput{Gold: gold.Price, Silver: silver.Price}
	for _, lc := range r.cfg.Ladders {
		state, ok := r.ladderState(lc, silver.Price)
		if !ok {
			continue
		}
		in.Ladders = append(in.Ladders, state)
	}

	alerts := risk.Evaluate(in, r.cfg.Policy.RiskPolicy())

	// Decide what is fresh before this run's own rows hit the journal.
	fresh := r.freshAlerts(runID, alerts)

	res := Result{
		RunID:      runID,
		Gold:       gold.Price,
		Silver:     silver.Price,
		Alerts:     alerts,
		Suppressed: len(alerts) - len(fresh),
	}

	r.record(res)

	if len(alerts) == 0 {
		logger.Infof("run %s: no alerts", runID)
		return res, nil
	}
	if len(fresh) == 0 {
		logger.Infof("run %s: %d alert(s), all repeats within suppression window, not re-mailing", runID, len(alerts))
		return res, nil
	}

	mail := res
	mail.Alerts = fresh
	subject, body := Digest(mail)
	if err := r.notifier.Send(subject, body); err != nil {
		// Evaluation already completed; a lost notification is an
		// operational gap, not a failed run.
		logger.Errorf("run %s: ALERT NOTIFICATION NOT DELIVERED: %v", runID, err)
		return res, nil
	}
	res.Notified = true
	logger.Infof("run %s: sent %d alert(s), %d repeat(s) withheld", runID, len(fresh), res.Suppressed)
	return res, nil
}

// freshAlerts drops alerts whose kind+ladder already appears in the
// journal within the configured suppression window, so cron does not
// re-mail a standing breach every few minutes. Journal trouble fails
// open: better a duplicate mail than a silent one.
func (r *Runner) freshAlerts(runID string, alerts []risk.Alert) []risk.Alert {
	if r.journal == nil || len(alerts) == 0 {
		return alerts
	}
	window, err := r.cfg.Journal.ParseSuppressWindow()
	if err != nil || window <= 0 {
		return alerts
	}

	prior, err := r.journal.ListAlertsSince(time.Now().UTC().Add(-window))
	if err != nil {
		logger.Errorf("run %s: list recent alerts: %v", runID, err)
		return alerts
	}

	seen := make(map[string]bool, len(prior))
	for _, p := range prior {
		seen[p.Kind+"|"+p.Ladder] = true
	}

	fresh := make([]risk.Alert, 0, len(alerts))
	for _, a := range alerts {
		if seen[string(a.Kind)+"|"+a.Ladder] {
			continue
		}
		fresh = append(fresh, a)
	}
	return fresh
}

// ladderState turns one configured ladder into evaluator input.
// Bad config or degenerate math drops the affected checks for this run
// only, loudly.
func (r *Runner) ladderState(lc config.LadderConfig, silver decimal.Decimal) (risk.LadderState, bool) {
	snap, err := lc.Snapshot()
	if err != nil {
		logger.Errorf("ladder %q: invalid config, skipping: %v", lc.Name, err)
		return risk.LadderState{}, false
	}

	live := lc.PriceConversion().Apply(silver)
	state := risk.LadderState{Name: lc.Name, LivePrice: live}

	nextBuy, err := risk.NextBuyPrice(snap, lc.SafetyRate())
	switch err {
	case nil:
		state.NextBuy = nextBuy
		state.NextBuyOK = true
	case risk.ErrDegenerateLadder:
		logger.Warnf("ladder %q: %v, skipping buy check", lc.Name, err)
	default:
		logger.Errorf("ladder %q: next-buy price: %v", lc.Name, err)
	}

	mc, err := risk.MarginCallPrice(snap)
	switch err {
	case nil:
		state.MarginCall = mc
		state.MarginCallOK = true
	case risk.ErrNoPosition:
		logger.Warnf("ladder %q: %v, skipping margin check", lc.Name, err)
	default:
		logger.Errorf("ladder %q: margin-call price: %v", lc.Name, err)
	}

	return state, true
}

// record persists the run and its alerts. Best effort: journal trouble
// is logged and the run carries on.
func (r *Runner) record(res Result) {
	if r.journal == nil {
		return
	}
	now := time.Now().UTC()

	if err := r.journal.RecordRun(journal.RunRecord{
		RunID:      res.RunID,
		Gold:       res.Gold.String(),
		Silver:     res.Silver.String(),
		AlertCount: len(res.Alerts),
		Time:       now,
	}); err != nil {
		logger.Errorf("run %s: journal run: %v", res.RunID, err)
	}

	for _, a := range res.Alerts {
		if err := r.journal.RecordAlert(journal.AlertRecord{
			RunID:     res.RunID,
			Kind:      string(a.Kind),
			Ladder:    a.Ladder,
			LivePrice: a.LivePrice.String(),
			Threshold: a.Threshold.String(),
			Message:   a.Message,
			Time:      now,
		}); err != nil {
			logger.Errorf("run %s: journal alert: %v", res.RunID, err)
		}
	}
}

// Digest renders the mail subject and body for a run with alerts.
func Digest(res Result) (subject, body string) {
	ratio := decimal.Zero
	if res.Silver.IsPositive() {
		ratio = res.Gold.Div(res.Silver)
	}
	subject = fmt.Sprintf("Silver Alert: Ratio %s | Ag $%s",
		ratio.StringFixed(2), res.Silver.StringFixed(2))

	var b strings.Builder
	for _, a := range res.Alerts {
		b.WriteString(a.Message)
		b.WriteString("\n")
	}
	b.WriteString("\nCurrent Data:\n")
	fmt.Fprintf(&b, "Gold: %s\n", res.Gold)
	fmt.Fprintf(&b, "Silver: %s\n", res.Silver)

	return subject, b.String()
}
