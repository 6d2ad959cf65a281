package model

// Tasks maps a task id to a bool, a number, or a structured payload.
type Tasks map[string]any

type DayLog struct {
	Date   string `json:"date" bson:"date"`
	Tasks  Tasks  `json:"tasks" bson:"tasks"`
	Status string `json:"status" bson:"status"`
	Locked bool   `json:"locked" bson:"locked"`
}

func (l DayLog) Clone() DayLog {
	out := l
	if l.Tasks == nil {
		return out
	}
	out.Tasks = make(Tasks, len(l.Tasks))
	for k, v := range l.Tasks {
		if m, ok := v.(map[string]any); ok {
			cp := make(map[string]any, len(m))
			for mk, mv := range m {
				cp[mk] = mv
			}
			v = cp
		}
		out.Tasks[k] = v
	}
	return out
}
