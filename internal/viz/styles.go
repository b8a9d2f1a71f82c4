package viz

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	statsStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2)
	latticeStyle = lipgloss.NewStyle().Padding(1, 2)

	upStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	downStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("25"))
)

func lipglossJoin(left, right string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}
