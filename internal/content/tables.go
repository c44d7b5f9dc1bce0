package content

// Worker names.
const (
	VideoGeneration = "video_generation"
	Explanation     = "explanation"
	AnimationConfig = "animation_config"
	CodeEquation    = "code_equation"
	Visualization   = "visualization"
	Application     = "application"
	SummaryWorker   = "summary"
	QuizGeneration  = "quiz_generation"
)

// Execution modes. Summaries report how a run executed; Info reports how
// the orchestrator schedules workers.
const (
	ExecutionMode     = "parallel"
	InfoExecutionMode = "parallel_async"
)

// Slot names a learning format shown to the learner.
type Slot string

// Learning-format slots.
const (
	HookVideo             Slot = "hook_video"
	ConceptExplanation    Slot = "concept_explanation"
	StaticAnimation       Slot = "static_animation"
	CodeEquations         Slot = "code_equations"
	VisualDiagrams        Slot = "visual_diagrams"
	PracticeProblems      Slot = "practice_problems"
	RealWorldApplications Slot = "real_world_applications"
	SummaryCards          Slot = "summary_cards"
)

type slotEntry struct {
	slot    Slot
	worker  string
	display string
}

// formatTable is a bijection between slots and workers, in display order.
var formatTable = []slotEntry{
	{HookVideo, VideoGeneration, "Hook Video"},
	{ConceptExplanation, Explanation, "Concept Explanation"},
	{StaticAnimation, AnimationConfig, "Static Animation"},
	{CodeEquations, CodeEquation, "Code/Equations"},
	{VisualDiagrams, Visualization, "Visual Diagrams"},
	{PracticeProblems, QuizGeneration, "Practice Problems"},
	{RealWorldApplications, Application, "Real-world Applications"},
	{SummaryCards, SummaryWorker, "Summary Cards"},
}

// Slots returns the eight learning-format slots in display order.
func Slots() []Slot {
	out := make([]Slot, len(formatTable))
	for i, e := range formatTable {
		out[i] = e.slot
	}
	return out
}

// WorkerNames returns the eight worker names in slot display order.
func WorkerNames() []string {
	out := make([]string, len(formatTable))
	for i, e := range formatTable {
		out[i] = e.worker
	}
	return out
}

// FormatMapping returns a fresh copy of the slot to worker mapping.
func FormatMapping() map[Slot]string {
	out := make(map[Slot]string, len(formatTable))
	for _, e := range formatTable {
		out[e.slot] = e.worker
	}
	return out
}

// DisplayName returns the human-readable name of a slot, or the slot itself
// if it is not part of the table.
func DisplayName(s Slot) string {
	for _, e := range formatTable {
		if e.slot == s {
			return e.display
		}
	}
	return string(s)
}

// Fallback returns the placeholder content used when a worker fails or is not
// requested. A new value is built on every call so callers may modify it
// freely; unknown names get a generic placeholder.
func Fallback(worker string) Content {
	switch worker {
	case VideoGeneration:
		return Content{
			"script":   "Introduction to the educational topic",
			"hook":     "Let's explore this fascinating subject together!",
			"duration": "30 seconds",
		}
	case Explanation:
		return Content{
			"explanation": "This topic covers important concepts that build foundational understanding.",
			"key_points":  []any{"Core concept 1", "Core concept 2", "Core concept 3"},
		}
	case AnimationConfig:
		return Content{
			"config":      "// Basic animation configuration\nconst config = { scene: 'basic', duration: 3000 };",
			"description": "Simple animation setup",
		}
	case CodeEquation:
		return Content{
			"code_examples": []any{"// Basic example\nconsole.log('Hello, learning!');"},
			"equations":     []any{"Basic formula: a + b = c"},
		}
	case Visualization:
		return Content{
			"charts":      []any{"basic_concept_diagram"},
			"description": "Conceptual visualization",
		}
	case Application:
		return Content{
			"examples":    []any{"Real-world application examples to be added"},
			"connections": "Practical applications in everyday life",
		}
	case SummaryWorker:
		return Content{
			"key_points": []any{"Main concept", "Important detail", "Key takeaway"},
			"summary":    "Summary of key learning objectives",
		}
	case QuizGeneration:
		return Content{
			"questions": []any{
				map[string]any{
					"question":    "What is the main topic covered?",
					"options":     []any{"Option A", "Option B", "Option C", "Option D"},
					"correct":     0,
					"explanation": "Basic comprehension question",
				},
			},
		}
	default:
		return Content{"content": "Fallback content generated"}
	}
}

// Info describes the orchestrator for clients.
type Info struct {
	Orchestrator     string   `json:"orchestrator"`
	AvailableAgents  []string `json:"available_agents"`
	SupportedFormats []string `json:"supported_formats"`
	ExecutionMode    string   `json:"execution_mode"`
	FallbackStrategy string   `json:"fallback_strategy"`
	DeadlineSeconds  float64  `json:"deadline_seconds"`
}

func supportedFormats() []string {
	out := make([]string, len(formatTable))
	for i, e := range formatTable {
		out[i] = e.display
	}
	return out
}
