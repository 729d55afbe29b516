package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/feltworks/casino/internal/cards"
	"github.com/feltworks/casino/internal/poker"
)

const logTail = 8

// promptMsg asks the player to act.
type promptMsg struct {
	view    poker.TurnView
	seconds int
}

// promptDoneMsg clears a prompt the turn clock resolved.
type promptDoneMsg struct{}

// gameEventMsg carries a table event into the program.
type gameEventMsg struct{ event poker.Event }

// handErrorMsg reports an aborted hand.
type handErrorMsg struct{ err error }

// rejectMsg reports a refused action; the prompt comes back for another
// try.
type rejectMsg struct{ reason string }

type countdownMsg struct{ id int }

// Model renders one poker table and the human seat's controls.
type Model struct {
	humanSeat int
	agent     *HumanAgent
	deal      func()

	snapshot poker.Snapshot
	inHand   bool
	log      []string

	prompt      *poker.TurnView
	secondsLeft int
	promptID    int

	raising    bool
	raiseInput textinput.Model

	status   string
	width    int
	height   int
	quitting bool
}

// NewModel creates the table view. deal requests the next hand and must
// not block.
func NewModel(humanSeat int, agent *HumanAgent, deal func()) *Model {
	ti := textinput.New()
	ti.Placeholder = "raise to"
	ti.CharLimit = 10
	ti.Width = 12
	ti.Prompt = "raise to $"

	return &Model{
		humanSeat:  humanSeat,
		agent:      agent,
		deal:       deal,
		raiseInput: ti,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case gameEventMsg:
		m.applyEvent(msg.event)

	case promptMsg:
		view := msg.view
		m.prompt = &view
		m.secondsLeft = msg.seconds
		m.promptID++
		return m, m.tick(m.promptID)

	case promptDoneMsg:
		m.clearPrompt()

	case rejectMsg:
		m.status = ErrorStyle.Render(msg.reason)

	case countdownMsg:
		if msg.id == m.promptID && m.prompt != nil && m.secondsLeft > 0 {
			m.secondsLeft--
			return m, m.tick(msg.id)
		}

	case handErrorMsg:
		m.inHand = false
		m.clearPrompt()
		m.status = ErrorStyle.Render(msg.err.Error())

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) tick(id int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return countdownMsg{id: id}
	})
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.raising {
		return m.handleRaiseKey(msg)
	}

	switch msg.String() {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit

	case "n":
		if !m.inHand && m.deal != nil {
			m.deal()
		}

	case "k":
		if m.prompt != nil && m.prompt.ToCall() == 0 {
			m.submit(poker.Check, 0)
		}

	case "c":
		if m.prompt != nil && m.prompt.ToCall() > 0 {
			m.submit(poker.Call, 0)
		}

	case "f":
		if m.prompt != nil {
			m.submit(poker.Fold, 0)
		}

	case "r":
		if m.prompt != nil && m.prompt.Chips > m.prompt.ToCall() {
			m.raising = true
			m.raiseInput.SetValue(strconv.Itoa(m.prompt.MinRaise()))
			m.raiseInput.Focus()
			return m, textinput.Blink
		}
	}

	return m, nil
}

func (m *Model) handleRaiseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.stopRaising()
		return m, nil

	case "enter":
		amount, err := strconv.Atoi(strings.TrimSpace(m.raiseInput.Value()))
		if err != nil || amount <= 0 {
			m.status = ErrorStyle.Render("enter a whole raise-to amount")
			return m, nil
		}
		m.stopRaising()
		m.submit(poker.Raise, amount)
		return m, nil
	}

	var cmd tea.Cmd
	m.raiseInput, cmd = m.raiseInput.Update(msg)
	return m, cmd
}

func (m *Model) stopRaising() {
	m.raising = false
	m.raiseInput.Blur()
	m.raiseInput.SetValue("")
}

func (m *Model) submit(action poker.Action, amount int) {
	if m.prompt == nil {
		return
	}
	m.agent.Submit(poker.Decision{Action: action, Amount: amount})
	m.clearPrompt()
}

func (m *Model) clearPrompt() {
	m.prompt = nil
	m.secondsLeft = 0
	if m.raising {
		m.stopRaising()
	}
}

func (m *Model) applyEvent(event poker.Event) {
	switch e := event.(type) {
	case poker.HandStartEvent:
		m.snapshot = e.Snapshot
		m.inHand = true
		m.status = ""
		m.addLog(fmt.Sprintf("--- new hand, blinds %d/%d ---", e.SmallBlind, e.BigBlind))

	case poker.PlayerActionEvent:
		m.snapshot = e.Snapshot
		m.addLog(describeAction(e))
		if e.Seat == m.humanSeat {
			m.clearPrompt()
			m.status = ""
		}

	case poker.PhaseChangeEvent:
		m.snapshot = e.Snapshot
		m.addLog(fmt.Sprintf("%s: %s", e.Phase, plainCards(e.Community)))

	case poker.TurnStartEvent:
		m.snapshot = e.Snapshot

	case poker.HandEndEvent:
		m.snapshot = e.Snapshot
		m.inHand = false
		m.clearPrompt()
		if e.Showdown {
			m.addLog(fmt.Sprintf("%s wins $%d with %s", e.Winner.Name, e.Winner.Amount, e.Winner.Category))
		} else {
			m.addLog(fmt.Sprintf("%s wins $%d", e.Winner.Name, e.Winner.Amount))
		}
	}
}

func describeAction(e poker.PlayerActionEvent) string {
	var line string
	switch e.Action {
	case poker.Check:
		line = fmt.Sprintf("%s checks", e.Name)
	case poker.Call:
		line = fmt.Sprintf("%s calls $%d", e.Name, e.Amount)
	case poker.Raise:
		line = fmt.Sprintf("%s raises to $%d", e.Name, e.Snapshot.CurrentBet)
	case poker.Fold:
		line = fmt.Sprintf("%s folds", e.Name)
	default:
		line = fmt.Sprintf("%s %s", e.Name, e.Action)
	}
	if e.Auto {
		line += " (clock)"
	}
	return line
}

func plainCards(cs []cards.Card) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

func (m *Model) addLog(line string) {
	m.log = append(m.log, line)
	if len(m.log) > 200 {
		m.log = m.log[len(m.log)-200:]
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Feltworks Casino · Texas Hold'em"))
	b.WriteString("\n\n")

	if m.snapshot.HandID == "" {
		b.WriteString(HelpStyle.Render("Press n to deal the first hand."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(TableStyle.Render(m.renderTable()))
	b.WriteString("\n")
	b.WriteString(m.renderPrompt())
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}

	if len(m.log) > 0 {
		start := len(m.log) - logTail
		if start < 0 {
			start = 0
		}
		b.WriteString(HelpStyle.Render(strings.Join(m.log[start:], "\n")))
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render(m.helpLine()))
	return b.String()
}

func (m *Model) renderTable() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s   %s",
		SeatStyle.Render(m.snapshot.Phase.String()),
		PotStyle.Render(fmt.Sprintf("Pot $%d", m.snapshot.Pot))))
	if m.snapshot.CurrentBet > 0 {
		b.WriteString(PotStyle.Render(fmt.Sprintf("   Bet $%d", m.snapshot.CurrentBet)))
	}
	b.WriteString("\n")
	b.WriteString("Board: " + FormatCards(m.snapshot.Community))
	b.WriteString("\n\n")

	for _, seat := range m.snapshot.Seats {
		b.WriteString(m.renderSeat(seat))
		b.WriteString("\n")
	}

	if m.humanSeat >= 0 && m.humanSeat < len(m.snapshot.Seats) {
		b.WriteString("\nYour cards: " + FormatCards(m.snapshot.Seats[m.humanSeat].Hole))
	}
	return b.String()
}

func (m *Model) renderSeat(seat poker.SeatState) string {
	marker := "  "
	if seat.Seat == m.snapshot.ActiveSeat {
		marker = ActiveSeatStyle.Render("> ")
	}
	button := "   "
	if seat.Seat == m.snapshot.Dealer {
		button = "[D]"
	}

	name := seat.Name
	if seat.Seat == m.humanSeat {
		name += " (you)"
	}

	line := fmt.Sprintf("%s%s %-16s $%-6d", marker, button, name, seat.Chips)
	switch {
	case seat.Folded:
		return FoldedSeatStyle.Render(line + " folded")
	case seat.AllIn:
		return ActiveSeatStyle.Render(line + " all-in")
	case seat.Bet > 0:
		return SeatStyle.Render(line + fmt.Sprintf(" bet $%d", seat.Bet))
	default:
		return SeatStyle.Render(line)
	}
}

func (m *Model) renderPrompt() string {
	if m.raising {
		return lipgloss.JoinHorizontal(lipgloss.Top,
			m.raiseInput.View(),
			HelpStyle.Render("  enter to confirm, esc to cancel"))
	}

	if m.prompt == nil {
		if m.inHand {
			return HelpStyle.Render("Waiting for the other seats...")
		}
		return HelpStyle.Render("Hand over. Press n to deal again.")
	}

	var actions []string
	if m.prompt.ToCall() == 0 {
		actions = append(actions, SuccessStyle.Render("[k]check"))
	} else {
		actions = append(actions, SuccessStyle.Render(fmt.Sprintf("[c]all $%d", m.prompt.ToCall())))
	}
	if m.prompt.Chips > m.prompt.ToCall() {
		actions = append(actions, ActionsStyle.Render(fmt.Sprintf("[r]aise (min $%d)", m.prompt.MinRaise())))
	}
	actions = append(actions, ErrorStyle.Render("[f]old"))

	line := "Your turn: " + strings.Join(actions, "  ")
	if m.secondsLeft > 0 {
		line += "   " + CountdownStyle.Render(fmt.Sprintf("%ds", m.secondsLeft))
	}
	return line
}

func (m *Model) helpLine() string {
	return "n deal · k check · c call · r raise · f fold · q quit"
}
