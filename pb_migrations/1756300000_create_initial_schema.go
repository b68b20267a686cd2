package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		// Create sessions collection
		sessions := core.NewBaseCollection("sessions")
		sessions.ListRule = nil
		sessions.ViewRule = nil
		sessions.CreateRule = nil
		sessions.UpdateRule = nil
		sessions.DeleteRule = nil

		sessions.Fields.Add(&core.TextField{
			Name:     "candidate_name",
			Required: true,
			Max:      100,
		})

		sessions.Fields.Add(&core.EmailField{
			Name: "candidate_email",
		})

		// ISO timestamp strings; the API layer owns formatting
		sessions.Fields.Add(&core.TextField{
			Name: "date",
		})

		sessions.Fields.Add(&core.NumberField{
			Name:    "duration",
			OnlyInt: true,
		})

		sessions.Fields.Add(&core.NumberField{
			Name:    "score",
			OnlyInt: true,
		})

		sessions.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			MaxSelect: 1,
			Values:    []string{"scheduled", "in_progress", "completed"},
		})

		sessions.Fields.Add(&core.TextField{
			Name:     "language",
			Required: true,
			Max:      50,
		})

		sessions.Fields.Add(&core.TextField{
			Name: "notes",
			Max:  10000,
		})

		sessions.Fields.Add(&core.TextField{
			Name: "start_time",
		})

		// shared code buffer
		sessions.Fields.Add(&core.TextField{
			Name: "code",
			Max:  262144,
		})

		// last execution output
		sessions.Fields.Add(&core.TextField{
			Name: "output",
			Max:  262144,
		})

		// structured custom question
		sessions.Fields.Add(&core.JSONField{
			Name:    "question",
			MaxSize: 65536,
		})

		// flattened whiteboard snapshot: element id -> latest value
		sessions.Fields.Add(&core.JSONField{
			Name:    "whiteboard",
			MaxSize: 1048576,
		})

		sessions.Fields.Add(&core.AutodateField{
			Name:     "created",
			OnCreate: true,
		})

		sessions.Fields.Add(&core.AutodateField{
			Name:     "updated",
			OnCreate: true,
			OnUpdate: true,
		})

		sessions.Indexes = []string{
			"CREATE INDEX idx_sessions_status ON sessions(status)",
			"CREATE INDEX idx_sessions_created ON sessions(created)",
		}

		if err := app.Save(sessions); err != nil {
			return err
		}

		// Create users collection
		users := core.NewBaseCollection("users")
		users.ListRule = nil
		users.ViewRule = nil
		users.CreateRule = nil
		users.UpdateRule = nil
		users.DeleteRule = nil

		users.Fields.Add(&core.EmailField{
			Name:     "email",
			Required: true,
		})

		users.Fields.Add(&core.TextField{
			Name:     "password_hash",
			Required: true,
			Max:      200,
		})

		users.Fields.Add(&core.TextField{
			Name:     "name",
			Required: true,
			Max:      100,
		})

		users.Fields.Add(&core.SelectField{
			Name:      "role",
			Required:  true,
			MaxSelect: 1,
			Values:    []string{"interviewer", "candidate", "observer"},
		})

		users.Indexes = []string{
			"CREATE UNIQUE INDEX idx_users_email ON users(email)",
		}

		return app.Save(users)
	}, func(app core.App) error {
		for _, name := range []string{"sessions", "users"} {
			collection, err := app.FindCollectionByNameOrId(name)
			if err != nil {
				continue
			}
			if err := app.Delete(collection); err != nil {
				return err
			}
		}
		return nil
	})
}
