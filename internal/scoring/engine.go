package scoring

// Engine scores period inputs against a fixed parameter set. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	Params   Parameters
	Rounding Rounding
}

// NewEngine creates an Engine.
func NewEngine(params Parameters, rounding Rounding) *Engine {
	return &Engine{Params: params, Rounding: rounding}
}

// Evaluate scores every program that has inputs.
func (e *Engine) Evaluate(in Inputs) Result {
	var res Result
	if in.Complaint != nil {
		res.Complaint = e.Params.Complaint.Score(*in.Complaint, e.Rounding)
	}
	if in.Delivery != nil {
		res.Delivery = e.Params.Delivery.Score(*in.Delivery, e.Rounding)
	}
	if in.Outage != nil {
		res.Outage = e.Params.Outage.Score(*in.Outage, e.Rounding)
	}
	return res
}
