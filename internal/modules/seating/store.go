package seating

import (
	"errors"
	"sync"
)

var (
	// ErrTableNotFound is the not-found signal for hierarchy lookups;
	// dependent UI treats it as "deselect and prompt re-selection".
	ErrTableNotFound = errors.New("seating: table not found")
	// ErrNoTableSelected is returned by lookups that need a selected table.
	ErrNoTableSelected = errors.New("seating: no table selected")
)

// Store owns the floor→area→table hierarchy and the selection
// pointers. Every mutation rebuilds the touched branch copy-on-write
// and swaps the tree under the lock, so readers always observe a
// complete snapshot. Mutations that need a selected floor and area are
// silent no-ops when the selection is missing.
type Store struct {
	mu     sync.RWMutex
	floors []Floor

	selectedFloorID int64 // 0 means no selection
	selectedAreaID  int64
	selectedTableID int64
}

// NewStore creates a hierarchy store seeded with the given layout.
func NewStore(floors []Floor) *Store {
	return &Store{floors: copyFloors(floors)}
}

// Floors returns a deep copy of the whole hierarchy.
func (s *Store) Floors() []Floor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyFloors(s.floors)
}

// SelectFloor points the floor selection at the given id. Selecting a
// new floor clears the area selection.
func (s *Store) SelectFloor(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedFloorID != id {
		s.selectedAreaID = 0
	}
	s.selectedFloorID = id
}

// SelectArea points the area selection at the given id.
func (s *Store) SelectArea(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedAreaID = id
}

// SelectTable points the table selection at the given id. The id is
// not validated against the hierarchy; lookups report staleness.
func (s *Store) SelectTable(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedTableID = id
}

// ClearTableSelection detaches the operator from the current table.
func (s *Store) ClearTableSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedTableID = 0
}

// SelectedTableID reports the selected table id, if any.
func (s *Store) SelectedTableID() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedTableID, s.selectedTableID != 0
}

// AreasForSelectedFloor lists the areas of the selected floor; empty
// without a floor selection.
func (s *Store) AreasForSelectedFloor() []Area {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, floor := range s.floors {
		if floor.ID == s.selectedFloorID {
			return copyAreas(floor.Areas)
		}
	}
	return []Area{}
}

// TablesForSelectedArea lists the tables of the selected area; empty
// without a floor and area selection.
func (s *Store) TablesForSelectedArea() []Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, floor := range s.floors {
		if floor.ID != s.selectedFloorID {
			continue
		}
		for _, area := range floor.Areas {
			if area.ID == s.selectedAreaID {
				return copyTables(area.Tables)
			}
		}
	}
	return []Table{}
}

// AddTable appends a table to the selected area and marks it modified.
// No-op without a selected floor and area.
func (s *Store) AddTable(table Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	table.Modified = true
	s.rebuildSelectedArea(func(tables []Table) []Table {
		return append(tables, table)
	})
}

// UpdateTable merges the patch onto the matching table within the
// selected area; the geometry is deep-replaced, not merged. The table
// is marked modified. No-op without a selection or a match.
func (s *Store) UpdateTable(id int64, patch TablePatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rebuildSelectedArea(func(tables []Table) []Table {
		for i := range tables {
			if tables[i].ID != id {
				continue
			}
			if patch.Number != nil {
				tables[i].Number = *patch.Number
			}
			if patch.Chairs != nil {
				tables[i].Chairs = *patch.Chairs
			}
			if patch.Status != nil {
				tables[i].Status = *patch.Status
			}
			if patch.Geometry != nil {
				tables[i].Geometry = *patch.Geometry
			}
			tables[i].Modified = true
		}
		return tables
	})
}

// UpdateTableStatus sets the status of the matching table within the
// selected area and marks it modified.
func (s *Store) UpdateTableStatus(id int64, status TableStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rebuildSelectedArea(func(tables []Table) []Table {
		for i := range tables {
			if tables[i].ID == id {
				tables[i].Status = status
				tables[i].Modified = true
			}
		}
		return tables
	})
}

// AddArea appends an area to the selected floor. No-op without a
// selected floor.
func (s *Store) AddArea(area Area) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedFloorID == 0 {
		return
	}

	floors := copyFloors(s.floors)
	for i := range floors {
		if floors[i].ID == s.selectedFloorID {
			floors[i].Areas = append(floors[i].Areas, copyArea(area))
		}
	}
	s.floors = floors
}

// ModifiedTables flattens the hierarchy and returns every table whose
// dirty marker is set.
func (s *Store) ModifiedTables() []Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	modified := []Table{}
	for _, floor := range s.floors {
		for _, area := range floor.Areas {
			for _, table := range area.Tables {
				if table.Modified {
					modified = append(modified, table)
				}
			}
		}
	}
	return modified
}

// ResetModified clears the dirty marker from exactly the tables that
// carry it; calling it again without further mutations changes
// nothing.
func (s *Store) ResetModified() {
	s.mu.Lock()
	defer s.mu.Unlock()

	floors := copyFloors(s.floors)
	for f := range floors {
		for a := range floors[f].Areas {
			tables := floors[f].Areas[a].Tables
			for t := range tables {
				tables[t].Modified = false
			}
		}
	}
	s.floors = floors
}

// TableByID searches the whole hierarchy for the table with the given
// id; ids are unique so the first match is the only one.
func (s *Store) TableByID(id int64) (Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, floor := range s.floors {
		for _, area := range floor.Areas {
			for _, table := range area.Tables {
				if table.ID == id {
					return table, nil
				}
			}
		}
	}
	return Table{}, ErrTableNotFound
}

// SelectedTable resolves the current table selection against the
// hierarchy; a stale selection reports ErrTableNotFound.
func (s *Store) SelectedTable() (Table, error) {
	s.mu.RLock()
	id := s.selectedTableID
	s.mu.RUnlock()
	if id == 0 {
		return Table{}, ErrNoTableSelected
	}
	return s.TableByID(id)
}

// LocationOfSelectedTable finds the floor and area containing the
// selected table by membership search.
func (s *Store) LocationOfSelectedTable() (Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selectedTableID == 0 {
		return Location{}, ErrNoTableSelected
	}
	for _, floor := range s.floors {
		for _, area := range floor.Areas {
			for _, table := range area.Tables {
				if table.ID == s.selectedTableID {
					return Location{Floor: copyFloor(floor), Area: copyArea(area)}, nil
				}
			}
		}
	}
	return Location{}, ErrTableNotFound
}

// rebuildSelectedArea rebuilds the whole tree, applying fn to the
// selected area's tables. Callers must hold the write lock. Everything
// is recreated so readers holding an old snapshot are never aliased.
func (s *Store) rebuildSelectedArea(fn func([]Table) []Table) {
	if s.selectedFloorID == 0 || s.selectedAreaID == 0 {
		return
	}

	floors := copyFloors(s.floors)
	for f := range floors {
		if floors[f].ID != s.selectedFloorID {
			continue
		}
		for a := range floors[f].Areas {
			if floors[f].Areas[a].ID == s.selectedAreaID {
				floors[f].Areas[a].Tables = fn(floors[f].Areas[a].Tables)
			}
		}
	}
	s.floors = floors
}

func copyFloors(floors []Floor) []Floor {
	out := make([]Floor, len(floors))
	for i, floor := range floors {
		out[i] = copyFloor(floor)
	}
	return out
}

func copyFloor(floor Floor) Floor {
	out := floor
	out.Areas = copyAreas(floor.Areas)
	return out
}

func copyAreas(areas []Area) []Area {
	out := make([]Area, len(areas))
	for i, area := range areas {
		out[i] = copyArea(area)
	}
	return out
}

func copyArea(area Area) Area {
	out := area
	out.Tables = copyTables(area.Tables)
	return out
}

func copyTables(tables []Table) []Table {
	out := make([]Table, len(tables))
	copy(out, tables)
	return out
}
