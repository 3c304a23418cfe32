package seating

// TableStatus is a free-form status field set by callers; the store
// does not police transitions.
type TableStatus string

const (
	StatusFree     TableStatus = "FREE"
	StatusOccupied TableStatus = "OCCUPIED"
	StatusReserved TableStatus = "RESERVED"
)

// Geometry is the table's position and shape on the floor plan.
type Geometry struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Shape  string  `json:"shape,omitempty"`
}

// Table is one physical table. Modified is the transient dirty marker
// cleared in bulk once the layout has been synced to the remote
// system. Table ids are unique across the whole hierarchy.
type Table struct {
	ID       int64       `json:"id"`
	Number   int         `json:"number"`
	Chairs   int         `json:"chairs"`
	Geometry Geometry    `json:"geometry"`
	Status   TableStatus `json:"status"`
	Modified bool        `json:"modified,omitempty"`
}

// Area is a named section of a floor.
type Area struct {
	ID     int64   `json:"id"`
	Ref    string  `json:"ref"`
	Name   string  `json:"name"`
	Tables []Table `json:"tables"`
}

// Floor is the top level of the seating hierarchy.
type Floor struct {
	ID    int64  `json:"id"`
	Ref   string `json:"ref"`
	Name  string `json:"name"`
	Areas []Area `json:"areas"`
}

// TablePatch carries the fields of a table update; nil fields are left
// untouched. Geometry is replaced whole, never merged field by field.
type TablePatch struct {
	Number   *int         `json:"number,omitempty"`
	Chairs   *int         `json:"chairs,omitempty"`
	Status   *TableStatus `json:"status,omitempty"`
	Geometry *Geometry    `json:"geometry,omitempty"`
}

// Location names the floor and area containing a table.
type Location struct {
	Floor Floor `json:"floor"`
	Area  Area  `json:"area"`
}
