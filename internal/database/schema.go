package database

// Table is one expected table and its column names.
type Table struct {
	Name    string
	Columns []string
}

// Declaration is the static description of the schema the application
// assumes. The verifier reconciles it against whatever the live database
// actually contains before any data is served.
type Declaration struct {
	Tables []Table
}

// Find returns the declared table with the given name.
func (d Declaration) Find(name string) (Table, bool) {
	for _, table := range d.Tables {
		if table.Name == name {
			return table, true
		}
	}
	return Table{}, false
}

// DefaultDeclaration describes the canonical chore-tracker schema. Column
// names follow the storage engine's case rules exactly; the comparison in
// the verifier is name-exact.
func DefaultDeclaration() Declaration {
	return Declaration{
		Tables: []Table{
			{
				Name: "users",
				Columns: []string{
					"id", "username", "firstname", "lastname", "usertype",
					"passwordhash", "token", "tokenissued", "createdat",
				},
			},
			{
				Name:    "categories",
				Columns: []string{"id", "name", "starthour"},
			},
			{
				Name:    "tasks",
				Columns: []string{"id", "categoryid", "name", "value", "details"},
			},
			{
				Name:    "completed",
				Columns: []string{"id", "userid", "datecode", "tasks"},
			},
		},
	}
}
