package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// The methods below implement the view synchronization for the aggregate:
// a task lives as independent copies in up to four collections (its folder,
// the flat task list, the today list, one weekday bucket) and every mutation
// has to reach all of them. Callers are expected to persist the aggregate
// after any mutating call.

// DefaultFolder returns the protected folder at index 0.
func (d *TaskData) DefaultFolder() *Folder {
	return &d.Folders[0]
}

// FolderByID returns the folder with the given id, or nil.
func (d *TaskData) FolderByID(id uuid.UUID) *Folder {
	for i := range d.Folders {
		if d.Folders[i].ID == id {
			return &d.Folders[i]
		}
	}
	return nil
}

// bucket returns the weekday bucket for day, creating it when the aggregate
// predates the fixed seven-bucket layout.
func (d *TaskData) bucket(day int) *DayBucket {
	for i := range d.WeekTasks {
		if d.WeekTasks[i].DayOfWeek == day {
			return &d.WeekTasks[i]
		}
	}
	d.WeekTasks = append(d.WeekTasks, DayBucket{DayOfWeek: day, Tasks: []Task{}})
	return &d.WeekTasks[len(d.WeekTasks)-1]
}

func newTask(title string, folder *Folder, due time.Time) Task {
	return Task{
		ID:       uuid.New(),
		Title:    title,
		Folder:   folder.Name,
		FolderID: folder.ID,
		DueDate:  &due,
	}
}

// CreateTodayTask creates a task due now and inserts it into the default
// folder, the today list and the bucket of the current weekday.
func (d *TaskData) CreateTodayTask(title string, now time.Time) Task {
	folder := d.DefaultFolder()
	task := newTask(title, folder, now)

	folder.Tasks = append(folder.Tasks, task)
	d.TodayTasks = append(d.TodayTasks, task)

	bucket := d.bucket(int(now.Weekday()))
	bucket.Tasks = append(bucket.Tasks, task)

	return task
}

// CreatePlainTask creates a task due now and inserts it into the default
// folder and the flat task list.
func (d *TaskData) CreatePlainTask(title string, now time.Time) Task {
	folder := d.DefaultFolder()
	task := newTask(title, folder, now)

	folder.Tasks = append(folder.Tasks, task)
	d.Tasks = append(d.Tasks, task)

	return task
}

// CreateWeekdayTask creates a task for the next occurrence of the given
// weekday (today counts) and inserts it into the default folder and the
// matching weekday bucket.
func (d *TaskData) CreateWeekdayTask(title string, dayOfWeek int, now time.Time) (Task, error) {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return Task{}, ErrInvalidDayOfWeek
	}

	folder := d.DefaultFolder()
	task := newTask(title, folder, nextWeekday(now, time.Weekday(dayOfWeek)))

	folder.Tasks = append(folder.Tasks, task)

	bucket := d.bucket(dayOfWeek)
	bucket.Tasks = append(bucket.Tasks, task)

	return task, nil
}

// CreateFolderTask creates a task inside the given folder only. A nil due
// date defaults to now.
func (d *TaskData) CreateFolderTask(title string, folderID uuid.UUID, due *time.Time, now time.Time) (Task, error) {
	folder := d.FolderByID(folderID)
	if folder == nil {
		return Task{}, ErrFolderNotFound
	}

	when := now
	if due != nil {
		when = *due
	}
	task := newTask(title, folder, when)
	folder.Tasks = append(folder.Tasks, task)

	return task, nil
}

// AddTaskToToday links an existing folder task into the today list with a
// refreshed due date. The weekday buckets are deliberately left alone: once
// a task exists, the today list and the week list are decoupled.
func (d *TaskData) AddTaskToToday(taskID uuid.UUID, now time.Time) (Task, error) {
	var existing *Task
	for i := range d.Folders {
		for j := range d.Folders[i].Tasks {
			if d.Folders[i].Tasks[j].ID == taskID {
				existing = &d.Folders[i].Tasks[j]
				break
			}
		}
		if existing != nil {
			break
		}
	}
	if existing == nil {
		return Task{}, ErrTaskNotFound
	}

	for i := range d.TodayTasks {
		if d.TodayTasks[i].ID == taskID {
			return Task{}, ErrTaskAlreadyToday
		}
	}

	existing.DueDate = &now
	d.TodayTasks = append(d.TodayTasks, *existing)

	return *existing, nil
}

// RemoveFromToday removes the task from the today list only.
func (d *TaskData) RemoveFromToday(taskID uuid.UUID) error {
	kept, removed := removeByID(d.TodayTasks, taskID)
	if !removed {
		return ErrTaskNotFound
	}
	d.TodayTasks = kept
	return nil
}

// TasksForToday returns the today-list entries whose due date falls on the
// current calendar day. Entries that rolled out of range are trimmed from
// the aggregate; trimmed reports whether the caller needs to persist.
func (d *TaskData) TasksForToday(now time.Time) (tasks []Task, trimmed bool) {
	tasks = []Task{}
	for _, t := range d.TodayTasks {
		if t.DueDate != nil && sameDay(*t.DueDate, now) {
			tasks = append(tasks, t)
		}
	}
	if len(tasks) != len(d.TodayTasks) {
		d.TodayTasks = tasks
		trimmed = true
	}
	return tasks, trimmed
}

// WeekView builds the 7-day window starting today. Tasks from the weekday
// buckets are placed by day offset of their due date; buckets themselves are
// not reorganized.
func (d *TaskData) WeekView(now time.Time) []WeekDay {
	today := startOfDay(now)

	week := make([]WeekDay, 7)
	for i := range week {
		day := today.AddDate(0, 0, i)
		week[i] = WeekDay{
			DayOfWeek: day.Weekday().String(),
			DayIndex:  int(day.Weekday()),
			Tasks:     []Task{},
		}
	}

	for _, bucket := range d.WeekTasks {
		for _, task := range bucket.Tasks {
			if task.DueDate == nil {
				continue
			}
			offset := dayOffset(today, task.DueDate.In(now.Location()))
			if offset >= 0 && offset < 7 {
				week[offset].Tasks = append(week[offset].Tasks, task)
			}
		}
	}

	return week
}

// FindTask looks the task up in the flat list, the folders and the today
// list, in that order, and returns the first copy decorated with folder
// information and a today marker.
func (d *TaskData) FindTask(taskID uuid.UUID) (TaskView, error) {
	var inTasks *Task
	for i := range d.Tasks {
		if d.Tasks[i].ID == taskID {
			inTasks = &d.Tasks[i]
			break
		}
	}

	var inFolder *Task
	var owner *Folder
	for i := range d.Folders {
		for j := range d.Folders[i].Tasks {
			if d.Folders[i].Tasks[j].ID == taskID {
				inFolder = &d.Folders[i].Tasks[j]
				owner = &d.Folders[i]
			}
		}
	}

	var inToday *Task
	for i := range d.TodayTasks {
		if d.TodayTasks[i].ID == taskID {
			inToday = &d.TodayTasks[i]
			break
		}
	}

	found := inTasks
	if found == nil {
		found = inFolder
	}
	if found == nil {
		found = inToday
	}
	if found == nil {
		return TaskView{}, ErrTaskNotFound
	}

	view := TaskView{Task: *found}
	if owner != nil {
		view.Folder = owner.Name
		view.FolderID = owner.ID
	}
	view.IsTodayTask = inToday != nil

	return view, nil
}

// UpdateTask applies the patch to every copy of the task across the flat
// list, all folders, all weekday buckets and the today list. It returns the
// last copy touched; copies are independent, so the returned value is
// representative rather than authoritative.
func (d *TaskData) UpdateTask(taskID uuid.UUID, patch TaskPatch) (*Task, error) {
	var last *Task
	apply := func(t *Task) {
		if patch.Title != nil {
			t.Title = *patch.Title
		}
		if patch.DueDate != nil {
			due := *patch.DueDate
			t.DueDate = &due
		}
		if patch.Done != nil {
			t.Done = *patch.Done
		}
		if patch.Pin != nil {
			t.Pin = *patch.Pin
		}
		last = t
	}

	for i := range d.Tasks {
		if d.Tasks[i].ID == taskID {
			apply(&d.Tasks[i])
		}
	}
	for i := range d.Folders {
		for j := range d.Folders[i].Tasks {
			if d.Folders[i].Tasks[j].ID == taskID {
				apply(&d.Folders[i].Tasks[j])
			}
		}
	}
	for i := range d.WeekTasks {
		for j := range d.WeekTasks[i].Tasks {
			if d.WeekTasks[i].Tasks[j].ID == taskID {
				apply(&d.WeekTasks[i].Tasks[j])
			}
		}
	}
	for i := range d.TodayTasks {
		if d.TodayTasks[i].ID == taskID {
			apply(&d.TodayTasks[i])
		}
	}

	if last == nil {
		return nil, ErrTaskNotFound
	}
	updated := *last
	return &updated, nil
}

// CreateFolder appends a new folder with an empty task list. Names are not
// required to be unique.
func (d *TaskData) CreateFolder(name string) Folder {
	folder := Folder{
		ID:    uuid.New(),
		Name:  name,
		Tasks: []Task{},
	}
	d.Folders = append(d.Folders, folder)
	return folder
}

// RenameFolder sets the folder name and rewrites the denormalized folder
// name on every task copy carrying the folder's id, in all four collections.
func (d *TaskData) RenameFolder(folderID uuid.UUID, name string) (*Folder, error) {
	folder := d.FolderByID(folderID)
	if folder == nil {
		return nil, ErrFolderNotFound
	}

	folder.Name = name

	rename := func(tasks []Task) {
		for i := range tasks {
			if tasks[i].FolderID == folderID {
				tasks[i].Folder = name
			}
		}
	}
	rename(d.Tasks)
	rename(d.TodayTasks)
	for i := range d.WeekTasks {
		rename(d.WeekTasks[i].Tasks)
	}
	for i := range folder.Tasks {
		folder.Tasks[i].Folder = name
	}

	return folder, nil
}

// DeleteFolder removes the folder and every copy of its tasks from the flat
// list, the today list and the weekday buckets. The protected default folder
// cannot be deleted.
func (d *TaskData) DeleteFolder(folderID uuid.UUID) error {
	folder := d.FolderByID(folderID)
	if folder == nil {
		return ErrFolderNotFound
	}
	if folder.Protected {
		return ErrFolderProtected
	}

	owned := make(map[uuid.UUID]bool, len(folder.Tasks))
	for _, t := range folder.Tasks {
		owned[t.ID] = true
	}

	keep := func(tasks []Task) []Task {
		kept := tasks[:0]
		for _, t := range tasks {
			if !owned[t.ID] {
				kept = append(kept, t)
			}
		}
		return kept
	}
	d.Tasks = keep(d.Tasks)
	d.TodayTasks = keep(d.TodayTasks)
	for i := range d.WeekTasks {
		d.WeekTasks[i].Tasks = keep(d.WeekTasks[i].Tasks)
	}

	folders := d.Folders[:0]
	for _, f := range d.Folders {
		if f.ID != folderID {
			folders = append(folders, f)
		}
	}
	d.Folders = folders

	return nil
}

// DeleteTask removes every copy of the task from the flat list, the today
// list, the weekday buckets and the owning folder. The task must exist in
// at least one of the flat list, the today list or a folder.
func (d *TaskData) DeleteTask(taskID uuid.UUID) error {
	found := false
	if _, ok := findByID(d.Tasks, taskID); ok {
		found = true
	}
	if _, ok := findByID(d.TodayTasks, taskID); ok {
		found = true
	}
	for i := range d.Folders {
		if _, ok := findByID(d.Folders[i].Tasks, taskID); ok {
			found = true
			break
		}
	}
	if !found {
		return ErrTaskNotFound
	}

	d.Tasks, _ = removeByID(d.Tasks, taskID)
	d.TodayTasks, _ = removeByID(d.TodayTasks, taskID)
	for i := range d.WeekTasks {
		d.WeekTasks[i].Tasks, _ = removeByID(d.WeekTasks[i].Tasks, taskID)
	}
	for i := range d.Folders {
		d.Folders[i].Tasks, _ = removeByID(d.Folders[i].Tasks, taskID)
	}

	return nil
}

// SearchTasks returns tasks whose title contains the query
// (case-insensitive), scanning the today list, the weekday buckets and the
// folders in that order. A task appearing in several collections is reported
// once, first occurrence wins.
func (d *TaskData) SearchTasks(query string) []Task {
	needle := strings.ToLower(query)
	seen := make(map[uuid.UUID]bool)
	results := []Task{}

	add := func(t Task) {
		if strings.Contains(strings.ToLower(t.Title), needle) && !seen[t.ID] {
			seen[t.ID] = true
			results = append(results, t)
		}
	}

	for _, t := range d.TodayTasks {
		add(t)
	}
	for _, bucket := range d.WeekTasks {
		for _, t := range bucket.Tasks {
			add(t)
		}
	}
	for _, folder := range d.Folders {
		for _, t := range folder.Tasks {
			add(t)
		}
	}

	return results
}

// DecoratedFolderTasks returns the folder's tasks with folder name and id
// rewritten from the folder itself.
func (f *Folder) DecoratedFolderTasks() []Task {
	tasks := make([]Task, len(f.Tasks))
	for i, t := range f.Tasks {
		t.Folder = f.Name
		t.FolderID = f.ID
		tasks[i] = t
	}
	return tasks
}

// AllFolderTasks flattens every folder's tasks, decorated with folder
// information.
func (d *TaskData) AllFolderTasks() []Task {
	tasks := []Task{}
	for i := range d.Folders {
		tasks = append(tasks, d.Folders[i].DecoratedFolderTasks()...)
	}
	return tasks
}

func findByID(tasks []Task, id uuid.UUID) (*Task, bool) {
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i], true
		}
	}
	return nil, false
}

func removeByID(tasks []Task, id uuid.UUID) ([]Task, bool) {
	kept := tasks[:0]
	removed := false
	for _, t := range tasks {
		if t.ID == id {
			removed = true
			continue
		}
		kept = append(kept, t)
	}
	return kept, removed
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// dayOffset returns the number of whole calendar days from today to the day
// of t. Computed on day boundaries so DST shifts cannot skew the result.
func dayOffset(today, t time.Time) int {
	day := startOfDay(t)
	return int(day.Sub(today).Round(24*time.Hour) / (24 * time.Hour))
}

// nextWeekday returns the next calendar date (today or later) whose weekday
// equals day, at local midnight.
func nextWeekday(now time.Time, day time.Weekday) time.Time {
	today := startOfDay(now)
	add := int(day) - int(today.Weekday())
	if add < 0 {
		add += 7
	}
	return today.AddDate(0, 0, add)
}
