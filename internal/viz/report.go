package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/physics"
	"github.com/san-kum/rocketsim/internal/sim"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(18)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	warnStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	okStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("82"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	graphStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("49"))
	sectionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
)

func line(label, format string, args ...any) string {
	return labelStyle.Render(label) + valueStyle.Render(fmt.Sprintf(format, args...)) + "\n"
}

// Vehicle renders the derived engine and aero figures of a rocket.
func Vehicle(r *physics.Rocket) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("VEHICLE") + "\n")
	b.WriteString(line("model", "%s", r.Variant))
	b.WriteString(line("initial mass", "%.4f kg", r.Engine.InitialMass))
	b.WriteString(line("burnout mass", "%.4f kg", r.Engine.BurnoutMass()))
	b.WriteString(line("mass flow", "%.4f kg/s", r.Engine.MassFlowRate()))
	b.WriteString(line("total impulse", "%.2f N·s", r.Engine.TotalImpulse()))
	if r.Variant.HasDrag() {
		b.WriteString(line("reference area", "%.6f m²", r.Aero.Area))
		b.WriteString(line("drag coeff", "%.3f", r.Aero.DragCoeff))
	}
	if r.Variant.HasRotation() {
		b.WriteString(line("cg to cp", "%+.4f m", r.Aero.CGToCP))
		b.WriteString(line("pitch inertia", "%.4f kg·m²", r.Aero.Inertia))
	}
	return b.String()
}

// Summary renders the vehicle, the flight events and any collected metrics
// side by side.
func Summary(r *physics.Rocket, res *sim.Result) string {
	ev := res.Events

	var f strings.Builder
	f.WriteString(sectionStyle.Render("FLIGHT") + "\n")
	f.WriteString(line("integrator", "%s", res.Integrator))
	f.WriteString(line("steps", "%d", res.Steps))
	f.WriteString(line("burnout", "t=%.2fs  h=%.2fm  v=%.2fm/s", ev.Burnout.Time, ev.Burnout.Altitude, ev.Burnout.Velocity))
	f.WriteString(line("apogee", "t=%.2fs  h=%.2fm", ev.Apogee.Time, ev.Apogee.Altitude))
	f.WriteString(line("max speed", "%.2f m/s", ev.MaxSpeed))
	f.WriteString(line("ground contact", "%.2f s", ev.GroundContact))
	if res.Variant.HasRotation() {
		f.WriteString(line("downrange", "%.2f m", ev.Range))
	}

	if len(res.Metrics) > 0 {
		f.WriteString("\n" + sectionStyle.Render("METRICS") + "\n")
		keys := make([]string, 0, len(res.Metrics))
		for k := range res.Metrics {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			f.WriteString(line(k, "%.4g", res.Metrics[k]))
		}
	}

	status := okStyle.Render(strings.ToUpper(res.Phase.String()))
	if res.Phase != dynamo.Landed {
		status = warnStyle.Render(strings.ToUpper(res.Phase.String()))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(Vehicle(r)),
		panelStyle.Render(f.String()),
	)
	return titleStyle.Render("ROCKETSIM") + "  " + status + "\n" + body + "\n"
}

// Table renders one row per labeled result, used to compare runs.
func Table(labels []string, results []*sim.Result) string {
	header := fmt.Sprintf("%-24s %10s %10s %10s %10s %10s", "run", "apogee m", "t_apo s", "v_max", "burnout m", "impact s")
	var b strings.Builder
	b.WriteString(sectionStyle.Render(header) + "\n")
	for i, res := range results {
		if res == nil {
			b.WriteString(dimStyle.Render(fmt.Sprintf("%-24s %10s", labels[i], "failed")) + "\n")
			continue
		}
		ev := res.Events
		b.WriteString(fmt.Sprintf("%-24s %10.2f %10.2f %10.2f %10.2f %10.2f\n",
			labels[i], ev.Apogee.Altitude, ev.Apogee.Time, ev.MaxSpeed, ev.Burnout.Altitude, ev.GroundContact))
	}
	return b.String()
}

// RelativeDiff is |a-b| relative to the larger magnitude.
func RelativeDiff(a, b float64) float64 {
	den := math.Max(math.Abs(a), math.Abs(b))
	if den == 0 {
		return 0
	}
	return math.Abs(a-b) / den
}
