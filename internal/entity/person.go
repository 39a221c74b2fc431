package entity

// Person is an address book record keyed by the owning identity.
type Person struct {
	Key       string `json:"key"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Age       uint64 `json:"age"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
}

// Diff copies every differing field of other into the receiver and returns
// the names of the fields that changed.
func (that *Person) Diff(other *Person) []string {
	var changes []string

	if that.FirstName != other.FirstName {
		that.FirstName = other.FirstName
		changes = append(changes, "first name")
	}

	if that.LastName != other.LastName {
		that.LastName = other.LastName
		changes = append(changes, "last name")
	}

	if that.Age != other.Age {
		that.Age = other.Age
		changes = append(changes, "age")
	}

	if that.Street != other.Street {
		that.Street = other.Street
		changes = append(changes, "street")
	}

	if that.City != other.City {
		that.City = other.City
		changes = append(changes, "city")
	}

	if that.State != other.State {
		that.State = other.State
		changes = append(changes, "state")
	}

	return changes
}
