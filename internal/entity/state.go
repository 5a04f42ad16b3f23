package entity

// Workflow step names as reported in plans and logs.
const (
	StepRetrieveKnowledge = "retrieve_knowledge"
	StepAnalyzeFinancials = "analyze_financials"
)

// Tool names recorded in the executed-tools log.
const (
	ToolRAGRetrieval       = "rag_retrieval"
	ToolRAGRetrievalFailed = "rag_retrieval_failed"
	ToolFinancialAnalysis  = "financial_analysis"
	ToolLLMSynthesis       = "llm_synthesis"
	ToolLLMSynthesisFailed = "llm_synthesis_failed"
)

// ToolResultFinancialAnalysis keys the analyzer output in ToolResults.
const ToolResultFinancialAnalysis = "financial_analysis"

// Plan is the stage selection computed by the planner. Synthesis always runs
// and is therefore not part of the plan.
type Plan struct {
	Retrieve bool
	Analyze  bool
}

// Steps renders the plan as the ordered step names executed by the engine.
func (p Plan) Steps() []string {
	var steps []string
	if p.Retrieve {
		steps = append(steps, StepRetrieveKnowledge)
	}
	if p.Analyze {
		steps = append(steps, StepAnalyzeFinancials)
	}
	return steps
}

// AgentState is the aggregate threaded through the workflow. Stages never
// mutate it directly; each stage returns a delta that the engine merges via
// the corresponding Apply method, so every field has exactly one writer.
type AgentState struct {
	CustomerID   string
	Profile      *CustomerProfile
	Transactions []Transaction
	Query        string

	Plan Plan

	RetrievedContext string
	Sources          []string

	ToolResults   map[string]string
	ToolsExecuted []string

	Answer     string
	Reasoning  string
	Confidence float64

	TokenUsage TokenUsage
	Errors     []string
}

// NewAgentState builds the initial state for one request.
func NewAgentState(customerID string, profile *CustomerProfile, transactions []Transaction, query string) AgentState {
	return AgentState{
		CustomerID:   customerID,
		Profile:      profile,
		Transactions: transactions,
		Query:        query,
		ToolResults:  make(map[string]string),
	}
}

// PlanDelta is the planner's contribution.
type PlanDelta struct {
	Plan Plan
}

// RetrievalDelta is the retriever's contribution. Context and Sources replace
// the state fields wholesale; ToolsExecuted and Errors are appended.
type RetrievalDelta struct {
	RetrievedContext string
	Sources          []string
	ToolsExecuted    []string
	Errors           []string
}

// AnalysisDelta is the analyzer's contribution. ToolResults entries are merged
// into the state map; keys are unique per tool.
type AnalysisDelta struct {
	ToolResults   map[string]string
	ToolsExecuted []string
}

// SynthesisDelta is the synthesizer's contribution.
type SynthesisDelta struct {
	Answer        string
	Reasoning     string
	Confidence    float64
	TokenUsage    TokenUsage
	ToolsExecuted []string
	Errors        []string
}

func (s *AgentState) ApplyPlan(d PlanDelta) {
	s.Plan = d.Plan
}

func (s *AgentState) ApplyRetrieval(d RetrievalDelta) {
	s.RetrievedContext = d.RetrievedContext
	s.Sources = d.Sources
	s.ToolsExecuted = append(s.ToolsExecuted, d.ToolsExecuted...)
	s.Errors = append(s.Errors, d.Errors...)
}

func (s *AgentState) ApplyAnalysis(d AnalysisDelta) {
	if s.ToolResults == nil {
		s.ToolResults = make(map[string]string)
	}
	for name, result := range d.ToolResults {
		s.ToolResults[name] = result
	}
	s.ToolsExecuted = append(s.ToolsExecuted, d.ToolsExecuted...)
}

func (s *AgentState) ApplySynthesis(d SynthesisDelta) {
	s.Answer = d.Answer
	s.Reasoning = d.Reasoning
	s.Confidence = d.Confidence
	s.TokenUsage = d.TokenUsage
	s.ToolsExecuted = append(s.ToolsExecuted, d.ToolsExecuted...)
	s.Errors = append(s.Errors, d.Errors...)
}
