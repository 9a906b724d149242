package types

// EndpointDefinition declares one remote action and its ordered argument names.
type EndpointDefinition struct {
	Action string   `json:"action" yaml:"action" validate:"required"`
	Args   []string `json:"args" yaml:"args" validate:"dive,required,identifier"`
}

// APIDefinition is the ordered list of endpoints; order is emission order.
type APIDefinition []EndpointDefinition
