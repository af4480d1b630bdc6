package web

import (
	"fmt"
	"sync"
	"time"

	"schoolhub/listview"
	"schoolhub/restapi"
)

// pageState holds the list snapshots behind one session's screens. Lists are
// spliced or invalidated after writes according to each screen's configured
// reconciliation strategy.
type pageState struct {
	mu       sync.Mutex
	lastSeen time.Time

	students *listview.List[restapi.Student]
	teachers *listview.List[restapi.Teacher]
	parents  *listview.List[restapi.Parent]
	classes  *listview.List[restapi.Class]
	subjects *listview.List[restapi.Subject]
	fees     *listview.List[restapi.Fee]
	expenses *listview.List[restapi.Expense]
	grades   *listview.List[restapi.Grade]
	users    *listview.List[restapi.User]
}

func newPageState() *pageState {
	return &pageState{
		students: listview.New(listview.Config[restapi.Student]{
			Key:    func(s restapi.Student) int { return s.StudentID },
			Fields: func(s restapi.Student) []string { return []string{s.FirstName, s.LastName, s.GradeLevel} },
			// the students screen always reconciles against the backend
			OnCreate: listview.Refetch, OnUpdate: listview.Refetch, OnDelete: listview.Refetch,
		}),
		teachers: listview.New(listview.Config[restapi.Teacher]{
			Key:      func(t restapi.Teacher) int { return t.TeacherID },
			Fields:   func(t restapi.Teacher) []string { return []string{t.FirstName + " " + t.LastName} },
			OnCreate: listview.Refetch, OnUpdate: listview.Refetch, OnDelete: listview.Refetch,
		}),
		parents: listview.New(listview.Config[restapi.Parent]{
			Key:      func(p restapi.Parent) int { return p.ParentID },
			Fields:   func(p restapi.Parent) []string { return []string{p.FirstName, p.LastName} },
			OnCreate: listview.Refetch, OnUpdate: listview.Refetch, OnDelete: listview.Refetch,
		}),
		classes: listview.New(listview.Config[restapi.Class]{
			Key:    func(c restapi.Class) int { return c.ID },
			Fields: func(c restapi.Class) []string { return []string{c.Name} },
			// the classroom screen patches its own list in place
			OnCreate: listview.Splice, OnUpdate: listview.Splice, OnDelete: listview.Splice,
		}),
		subjects: listview.New(listview.Config[restapi.Subject]{
			Key:      func(s restapi.Subject) int { return s.SubjectID },
			Fields:   func(s restapi.Subject) []string { return []string{s.Name} },
			OnCreate: listview.Splice, OnUpdate: listview.Splice, OnDelete: listview.Splice,
		}),
		fees: listview.New(listview.Config[restapi.Fee]{
			Key:    func(f restapi.Fee) int { return f.FeeID },
			Fields: func(f restapi.Fee) []string { return []string{f.StudentName.String, f.ReferenceNumber} },
			// the posted fee is echoed straight into the table
			OnCreate: listview.Splice, OnUpdate: listview.Splice, OnDelete: listview.Refetch,
		}),
		expenses: listview.New(listview.Config[restapi.Expense]{
			Key: func(e restapi.Expense) int { return e.ExpenseID },
			Fields: func(e restapi.Expense) []string {
				return []string{e.ExpenseType, fmt.Sprintf("%.2f", e.Amount)}
			},
			OnCreate: listview.Splice, OnUpdate: listview.Splice, OnDelete: listview.Refetch,
		}),
		grades: listview.New(listview.Config[restapi.Grade]{
			Key: func(g restapi.Grade) int { return g.GradeID },
			Fields: func(g restapi.Grade) []string {
				return []string{g.Student.FirstName + " " + g.Student.LastName, g.Subject.Name}
			},
			OnCreate: listview.Refetch, OnUpdate: listview.Refetch, OnDelete: listview.Splice,
		}),
		users: listview.New(listview.Config[restapi.User]{
			Key:      func(u restapi.User) int { return u.UserID },
			Fields:   func(u restapi.User) []string { return []string{u.Username, u.Email.String, u.Role} },
			OnCreate: listview.Refetch, OnUpdate: listview.Refetch, OnDelete: listview.Splice,
		}),
	}
}

// stateRegistry maps session tokens to their page state. Entries idle for
// longer than stateTTL are dropped on access.
type stateRegistry struct {
	mu     sync.Mutex
	states map[string]*pageState
}

const stateTTL = time.Hour

func newStateRegistry() *stateRegistry {
	return &stateRegistry{states: make(map[string]*pageState)}
}

func (r *stateRegistry) get(token string) *pageState {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for key, st := range r.states {
		if key != token && now.Sub(st.lastSeen) > stateTTL {
			delete(r.states, key)
		}
	}

	st, ok := r.states[token]
	if !ok {
		st = newPageState()
		r.states[token] = st
	}
	st.lastSeen = now
	return st
}

// drop forgets a session's state, e.g. on logout.
func (r *stateRegistry) drop(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, token)
}
