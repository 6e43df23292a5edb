// Package selection keeps the single optional selected skip id.
package selection

// Controller holds at most one selected id. The zero value has nothing selected.
type Controller struct {
	SelectedID *int64 `json:"selected_id"`
}

// Toggle clears the selection when id is already selected, otherwise replaces it.
// It reports whether id is selected afterwards.
func (c *Controller) Toggle(id int64) bool {
	if c.IsSelected(id) {
		c.SelectedID = nil
		return false
	}
	c.SelectedID = &id
	return true
}

func (c *Controller) Selected() (int64, bool) {
	if c.SelectedID == nil {
		return 0, false
	}
	return *c.SelectedID, true
}

func (c *Controller) IsSelected(id int64) bool {
	return c.SelectedID != nil && *c.SelectedID == id
}

func (c *Controller) Clear() {
	c.SelectedID = nil
}
