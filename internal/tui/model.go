package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rgehrsitz/taxsplit/internal/calculation"
	"github.com/rgehrsitz/taxsplit/internal/domain"
	"github.com/shopspring/decimal"
)

// Model is the root Bubble Tea model.
type Model struct {
	currentScene  Scene
	previousScene Scene

	width  int
	height int

	engine  *calculation.CalculationEngine
	forms   map[Scene]*form
	results map[Scene]any
	err     error
}

// optimalResult pairs the plan with the tax curve it came from.
type optimalResult struct {
	Plan  domain.OptimalPlan
	Curve []domain.ChartPoint
}

// NewModel creates the model around an engine that already carries its rules.
func NewModel(engine *calculation.CalculationEngine) Model {
	return Model{
		currentScene:  SceneOptimal,
		previousScene: SceneOptimal,
		width:         100,
		height:        30,
		engine:        engine,
		forms: map[Scene]*form{
			SceneOptimal: newForm("Salary", "Bonus", "Insurance", "Deduction"),
			SceneReverse: newForm("Total income", "Insurance"),
			SceneYearEnd: newForm("Prior salary", "December salary", "Bonus", "Insurance", "Deduction"),
		},
		results: make(map[Scene]any),
	}
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// CurrentScene returns the active scene.
func (m Model) CurrentScene() Scene {
	return m.currentScene
}

// Err returns the last input or calculation error, if any.
func (m Model) Err() error {
	return m.err
}

// Result returns the last result computed for a scene.
func (m Model) Result(s Scene) any {
	return m.results[s]
}

// calculateCmd runs the scene's calculation off the update loop.
func calculateCmd(engine *calculation.CalculationEngine, scene Scene, v []decimal.Decimal) tea.Cmd {
	return func() tea.Msg {
		switch scene {
		case SceneOptimal:
			in := domain.ScenarioInput{Salary: v[0], Bonus: v[1], Insurance: v[2], Deduction: v[3]}
			return ResultMsg{Scene: scene, Result: optimalResult{
				Plan:  engine.ComputeOptimalPlan(in),
				Curve: engine.ChartData(in),
			}}
		case SceneReverse:
			plan, err := engine.ComputeReversePlan(v[0], v[1], domain.DeductionProfile{})
			return ResultMsg{Scene: scene, Result: plan, Err: err}
		case SceneYearEnd:
			return ResultMsg{Scene: scene, Result: engine.ComputeYearEndPlan(domain.YearEndScenario{
				PriorSalary:    v[0],
				DecemberSalary: v[1],
				Bonus:          v[2],
				Insurance:      v[3],
				Deduction:      v[4],
			})}
		}
		return nil
	}
}

func navigateCmd(s Scene) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Scene: s}
	}
}
