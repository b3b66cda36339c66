package table

// Surface is the render target the reconciler drives. Implementations own
// row presentation; the reconciler only decides which operations to emit.
type Surface interface {
	InsertRow(row Row)
	UpdateCell(key string, column int, value string)
	RemoveRow(key string)
	// SortByCreationDesc orders rows most recent first with a stable sort,
	// so rows with equal creation times keep their relative order.
	SortByCreationDesc()
}

// Reconciler tracks the rows currently on a surface and transforms them into
// each new target set with minimal insert/update/remove operations, avoiding
// a full table rebuild on every poll tick.
type Reconciler struct {
	surface Surface
	rows    map[string]Row
}

// NewReconciler creates a reconciler over an empty surface.
func NewReconciler(surface Surface) *Reconciler {
	return &Reconciler{
		surface: surface,
		rows:    make(map[string]Row),
	}
}

// Apply diffs the surface's current rows against next and emits the
// operations needed to converge, then sorts. Rows whose fields are unchanged
// produce no operations; changed rows are updated cell by cell.
func (r *Reconciler) Apply(next []Row) {
	target := make(map[string]Row, len(next))
	for _, row := range next {
		target[row.Key] = row
	}

	for _, row := range next {
		current, ok := r.rows[row.Key]
		if !ok {
			r.surface.InsertRow(row)
			continue
		}
		for col := 0; col < NumColumns; col++ {
			if current.Fields[col] != row.Fields[col] {
				r.surface.UpdateCell(row.Key, col, row.Fields[col])
			}
		}
	}

	for key := range r.rows {
		if _, ok := target[key]; !ok {
			r.surface.RemoveRow(key)
		}
	}

	r.rows = target
	r.surface.SortByCreationDesc()
}
