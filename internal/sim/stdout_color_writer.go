// ANSI helpers for the human-readable stdout output.
package sim

import (
	"fmt"
	"io"
	"text/tabwriter"

	"craneguard/internal/collision"
	"craneguard/internal/config"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorGray    = "\x1b[90m"
	colorOrange  = "\x1b[38;5;208m"
)

func levelColor(l collision.Level) string {
	switch l {
	case collision.Danger:
		return colorRed
	case collision.Warning:
		return colorOrange
	case collision.Caution:
		return colorYellow
	default:
		return colorGreen
	}
}

func printOverview(out io.Writer, cfg *config.SiteConfig) {
	if cfg == nil {
		return
	}
	fmt.Fprintln(out, "Site Configuration:")
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Site:\t%s\n", cfg.SiteID)
	fmt.Fprintf(tw, "Scenario:\t%s\n", cfg.Scenario)
	fmt.Fprintf(tw, "Danger (m / s):\t%.1f / %.1f\n", cfg.Alerts.Danger.DistanceM, cfg.Alerts.Danger.TimeToCollisionS)
	fmt.Fprintf(tw, "Warning (m / s):\t%.1f / %.1f\n", cfg.Alerts.Warning.DistanceM, cfg.Alerts.Warning.TimeToCollisionS)
	fmt.Fprintf(tw, "Caution (m / s):\t%.1f / %.1f\n", cfg.Alerts.Caution.DistanceM, cfg.Alerts.Caution.TimeToCollisionS)
	fmt.Fprintf(tw, "Prediction Horizon (s):\t%.1f\n", cfg.Prediction.HorizonS)
	fmt.Fprintf(tw, "Prediction Step (s):\t%.2f\n", cfg.Prediction.StepS)
	fmt.Fprintf(tw, "Safety Margin (m):\t%.1f\n", cfg.Prediction.SafetyMarginM)
	tw.Flush()

	if len(cfg.Cranes) == 0 {
		fmt.Fprintln(out)
		return
	}
	fmt.Fprintln(out, "\nCranes:")
	tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tName\tBase\tMast\tBoom\n")
	for _, c := range cfg.Cranes {
		fmt.Fprintf(tw, "%s%s%s\t%s\t(%.1f,%.1f)\t%.1f\t%.1f\n", colorCyan, c.ID, colorReset, c.Name, c.BaseX, c.BaseY, c.MastHeight, c.BoomLength)
	}
	tw.Flush()
	fmt.Fprintln(out)
}

func printSnapshotColored(out io.Writer, snap Snapshot) {
	sim, st := snap.Simulation, snap.Status
	fmt.Fprintf(out, "%s[%s]%s ", colorGray, sim.Timestamp.Format("15:04:05.000"), colorReset)
	fmt.Fprintf(out, "%ssite=%s%s ", colorBlue, sim.SiteID, colorReset)
	fmt.Fprintf(out, "tick=%d ", sim.TickCount)
	fmt.Fprintf(out, "cranes=%d/%d pairs=%d ", st.ActiveCranes, st.TotalCranes, st.TotalPairs)
	fmt.Fprintf(out, "%sspeed=x%.1f%s ", colorCyan, sim.SpeedMultiplier, colorReset)
	fmt.Fprintf(out, "%shighest=%s%s\n", levelColor(st.HighestAlert), st.HighestAlert, colorReset)

	for _, a := range snap.Alerts {
		fmt.Fprintf(out, "  %s%s%s\n", levelColor(a.AlertLevel), a.Message, colorReset)
	}
	for _, e := range snap.Transitions {
		fmt.Fprintf(out, "  %sTRANSITION%s %s<->%s %s%s%s -> %s%s%s dist=%.2f\n",
			colorMagenta, colorReset, e.CraneA, e.CraneB,
			levelColor(e.FromLevel), e.FromLevel, colorReset,
			levelColor(e.ToLevel), e.ToLevel, colorReset, e.Distance)
	}
}
