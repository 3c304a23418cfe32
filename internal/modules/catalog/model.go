package catalog

// Category groups menu items on the ordering screen.
type Category struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IconPath string `json:"iconPath,omitempty"`
}

// Resource is an ingredient of a recipe, with its default amount.
type Resource struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Amount        float64 `json:"amount"`
	UnitOfMeasure string  `json:"unitOfMeasure,omitempty"`
	Price         float64 `json:"price"`
	Mandatory     bool    `json:"mandatory"`
}

// AddOn is an optional extra that can be attached to a recipe.
type AddOn struct {
	ID   int64  `json:"id"`
	Type string `json:"type"` // the remote classifies add-ons, e.g. "ITEM"
	Max  int    `json:"max,omitempty"`
	Item *Item  `json:"item,omitempty"`
}

// Item is a sellable recipe from the menu feed. Compositions list the
// variants of a composite item; Resources and AddsOn drive the
// customization dialog.
type Item struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Price        float64    `json:"price"`
	Category     *Category  `json:"category,omitempty"`
	Resources    []Resource `json:"resources,omitempty"`
	AddsOn       []AddOn    `json:"addsOn,omitempty"`
	Compositions []Item     `json:"compositions,omitempty"`
}

// AgentType distinguishes a catalog-defined tax profile from an ad hoc
// rate entered at the till.
type AgentType string

const (
	AgentExisting AgentType = "EXISTING_AGENT"
	AgentCustom   AgentType = "CUSTOM_AGENT"
)

// Agent is a tax-rate profile applied to an order's total.
type Agent struct {
	ID      int64     `json:"id,omitempty"`
	Name    string    `json:"name,omitempty"`
	TVARate float64   `json:"tvaRate"`
	Type    AgentType `json:"type,omitempty"`
}
