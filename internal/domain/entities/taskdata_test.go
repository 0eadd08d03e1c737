package entities

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday 2024-06-12 10:30 local.
var testNow = time.Date(2024, 6, 12, 10, 30, 0, 0, time.UTC)

func newData() *TaskData {
	return NewTaskData(uuid.New())
}

func countCopies(d *TaskData, id uuid.UUID) (flat, folders, today, week int) {
	for _, t := range d.Tasks {
		if t.ID == id {
			flat++
		}
	}
	for _, f := range d.Folders {
		for _, t := range f.Tasks {
			if t.ID == id {
				folders++
			}
		}
	}
	for _, t := range d.TodayTasks {
		if t.ID == id {
			today++
		}
	}
	for _, b := range d.WeekTasks {
		for _, t := range b.Tasks {
			if t.ID == id {
				week++
			}
		}
	}
	return
}

func TestNewTaskData_SeedsDefaultFolderAndBuckets(t *testing.T) {
	d := newData()

	require.Len(t, d.Folders, 1)
	assert.Equal(t, DefaultFolderName, d.Folders[0].Name)
	assert.True(t, d.Folders[0].Protected)

	require.Len(t, d.WeekTasks, 7)
	for i, b := range d.WeekTasks {
		assert.Equal(t, i, b.DayOfWeek)
		assert.Empty(t, b.Tasks)
	}
}

func TestCreateTodayTask_PlacesThreeCopies(t *testing.T) {
	d := newData()

	task := d.CreateTodayTask("water plants", testNow)

	flat, folders, today, week := countCopies(d, task.ID)
	assert.Equal(t, 0, flat)
	assert.Equal(t, 1, folders)
	assert.Equal(t, 1, today)
	assert.Equal(t, 1, week)

	bucket := d.WeekTasks[int(testNow.Weekday())]
	require.Len(t, bucket.Tasks, 1)
	assert.Equal(t, task.ID, bucket.Tasks[0].ID)

	assert.Equal(t, d.Folders[0].Name, task.Folder)
	assert.Equal(t, d.Folders[0].ID, task.FolderID)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, testNow, *task.DueDate)
}

func TestCreatePlainTask_PlacesTwoCopies(t *testing.T) {
	d := newData()

	task := d.CreatePlainTask("read a book", testNow)

	flat, folders, today, week := countCopies(d, task.ID)
	assert.Equal(t, 1, flat)
	assert.Equal(t, 1, folders)
	assert.Equal(t, 0, today)
	assert.Equal(t, 0, week)
}

func TestCreateWeekdayTask_SameWeekdayIsToday(t *testing.T) {
	d := newData()

	// testNow is a Wednesday
	task, err := d.CreateWeekdayTask("laundry", int(time.Wednesday), testNow)
	require.NoError(t, err)

	require.NotNil(t, task.DueDate)
	want := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, want, *task.DueDate)
}

func TestCreateWeekdayTask_PreviousWeekdayIsSixDaysOut(t *testing.T) {
	d := newData()

	// Tuesday relative to a Wednesday "now" lands six days ahead.
	task, err := d.CreateWeekdayTask("laundry", int(time.Tuesday), testNow)
	require.NoError(t, err)

	require.NotNil(t, task.DueDate)
	want := time.Date(2024, 6, 18, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, want, *task.DueDate)

	flat, folders, today, week := countCopies(d, task.ID)
	assert.Equal(t, 0, flat)
	assert.Equal(t, 1, folders)
	assert.Equal(t, 0, today)
	assert.Equal(t, 1, week)
	assert.Len(t, d.WeekTasks[int(time.Tuesday)].Tasks, 1)
}

func TestCreateWeekdayTask_InvalidDay(t *testing.T) {
	d := newData()

	_, err := d.CreateWeekdayTask("laundry", 7, testNow)
	assert.ErrorIs(t, err, ErrInvalidDayOfWeek)

	_, err = d.CreateWeekdayTask("laundry", -1, testNow)
	assert.ErrorIs(t, err, ErrInvalidDayOfWeek)
}

func TestCreateFolderTask_UnknownFolder(t *testing.T) {
	d := newData()

	_, err := d.CreateFolderTask("plan trip", uuid.New(), nil, testNow)
	assert.ErrorIs(t, err, ErrFolderNotFound)
}

func TestCreateFolderTask_DueDateDefaultsToNow(t *testing.T) {
	d := newData()
	folder := d.CreateFolder("Trips")

	task, err := d.CreateFolderTask("plan trip", folder.ID, nil, testNow)
	require.NoError(t, err)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, testNow, *task.DueDate)

	due := testNow.AddDate(0, 0, 3)
	task, err = d.CreateFolderTask("book hotel", folder.ID, &due, testNow)
	require.NoError(t, err)
	assert.Equal(t, due, *task.DueDate)
}

func TestAddTaskToToday_StampsDueDateAndLeavesBucketsAlone(t *testing.T) {
	d := newData()
	folder := d.CreateFolder("Chores")
	past := testNow.AddDate(0, 0, -5)
	task, err := d.CreateFolderTask("mow lawn", folder.ID, &past, testNow)
	require.NoError(t, err)

	added, err := d.AddTaskToToday(task.ID, testNow)
	require.NoError(t, err)

	require.NotNil(t, added.DueDate)
	assert.Equal(t, testNow, *added.DueDate)

	// The folder copy is stamped too.
	folderCopy := d.FolderByID(folder.ID).Tasks[0]
	assert.Equal(t, testNow, *folderCopy.DueDate)

	flat, folders, today, week := countCopies(d, task.ID)
	assert.Equal(t, 0, flat)
	assert.Equal(t, 1, folders)
	assert.Equal(t, 1, today)
	assert.Equal(t, 0, week, "weekday buckets must not change")
}

func TestAddTaskToToday_Duplicate(t *testing.T) {
	d := newData()
	task := d.CreateTodayTask("water plants", testNow)

	_, err := d.AddTaskToToday(task.ID, testNow)
	assert.ErrorIs(t, err, ErrTaskAlreadyToday)
}

func TestAddTaskToToday_UnknownTask(t *testing.T) {
	d := newData()

	_, err := d.AddTaskToToday(uuid.New(), testNow)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestRemoveFromToday_OnlyTouchesTodayList(t *testing.T) {
	d := newData()
	task := d.CreateTodayTask("water plants", testNow)

	require.NoError(t, d.RemoveFromToday(task.ID))

	flat, folders, today, week := countCopies(d, task.ID)
	assert.Equal(t, 0, flat)
	assert.Equal(t, 1, folders)
	assert.Equal(t, 0, today)
	assert.Equal(t, 1, week)

	assert.ErrorIs(t, d.RemoveFromToday(task.ID), ErrTaskNotFound)
}

func TestTasksForToday_TrimsStaleEntries(t *testing.T) {
	d := newData()
	fresh := d.CreateTodayTask("today", testNow)
	d.CreateTodayTask("yesterday", testNow.AddDate(0, 0, -1))

	tasks, trimmed := d.TasksForToday(testNow)

	assert.True(t, trimmed)
	require.Len(t, tasks, 1)
	assert.Equal(t, fresh.ID, tasks[0].ID)
	assert.Len(t, d.TodayTasks, 1)

	// Second call sees a clean list and reports no trim.
	tasks, trimmed = d.TasksForToday(testNow)
	assert.False(t, trimmed)
	assert.Len(t, tasks, 1)
}

func TestWeekView_PlacesTasksByDayOffset(t *testing.T) {
	d := newData()
	today := d.CreateTodayTask("today", testNow)
	friday, err := d.CreateWeekdayTask("friday", int(time.Friday), testNow)
	require.NoError(t, err)

	week := d.WeekView(testNow)
	require.Len(t, week, 7)

	assert.Equal(t, "Wednesday", week[0].DayOfWeek)
	assert.Equal(t, int(time.Wednesday), week[0].DayIndex)
	assert.Equal(t, "Tuesday", week[6].DayOfWeek)

	require.Len(t, week[0].Tasks, 1)
	assert.Equal(t, today.ID, week[0].Tasks[0].ID)

	// Friday is two days out from Wednesday.
	require.Len(t, week[2].Tasks, 1)
	assert.Equal(t, friday.ID, week[2].Tasks[0].ID)
}

func TestFindTask_DecoratesWithFolderAndTodayMarker(t *testing.T) {
	d := newData()
	task := d.CreateTodayTask("water plants", testNow)

	view, err := d.FindTask(task.ID)
	require.NoError(t, err)

	assert.Equal(t, task.ID, view.ID)
	assert.Equal(t, DefaultFolderName, view.Folder)
	assert.Equal(t, d.Folders[0].ID, view.FolderID)
	assert.True(t, view.IsTodayTask)

	plain := d.CreatePlainTask("read a book", testNow)
	view, err = d.FindTask(plain.ID)
	require.NoError(t, err)
	assert.False(t, view.IsTodayTask)

	_, err = d.FindTask(uuid.New())
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestUpdateTask_AllCopiesAgree(t *testing.T) {
	d := newData()
	task := d.CreateTodayTask("water plants", testNow)

	title := "water all plants"
	done := true
	pin := true
	updated, err := d.UpdateTask(task.ID, TaskPatch{Title: &title, Done: &done, Pin: &pin})
	require.NoError(t, err)

	assert.Equal(t, title, updated.Title)
	assert.True(t, updated.Done)
	assert.True(t, updated.Pin)

	check := func(got Task) {
		assert.Equal(t, title, got.Title)
		assert.True(t, got.Done)
		assert.True(t, got.Pin)
	}
	check(d.Folders[0].Tasks[0])
	check(d.TodayTasks[0])
	check(d.WeekTasks[int(testNow.Weekday())].Tasks[0])
}

func TestUpdateTask_EmptyPatchStillFindsTask(t *testing.T) {
	d := newData()
	task := d.CreatePlainTask("read a book", testNow)

	updated, err := d.UpdateTask(task.ID, TaskPatch{})
	require.NoError(t, err)
	assert.Equal(t, task.Title, updated.Title)

	_, err = d.UpdateTask(uuid.New(), TaskPatch{})
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestRenameFolder_CascadesToEveryCopy(t *testing.T) {
	d := newData()
	folder := d.CreateFolder("Chores")
	task, err := d.CreateFolderTask("mow lawn", folder.ID, nil, testNow)
	require.NoError(t, err)
	_, err = d.AddTaskToToday(task.ID, testNow)
	require.NoError(t, err)

	renamed, err := d.RenameFolder(folder.ID, "House")
	require.NoError(t, err)
	assert.Equal(t, "House", renamed.Name)

	assert.Equal(t, "House", d.FolderByID(folder.ID).Tasks[0].Folder)
	assert.Equal(t, "House", d.TodayTasks[0].Folder)

	_, err = d.RenameFolder(uuid.New(), "Nope")
	assert.ErrorIs(t, err, ErrFolderNotFound)
}

func TestRenameFolder_DefaultFolderCascadesToFlatListAndBuckets(t *testing.T) {
	d := newData()
	defaultID := d.Folders[0].ID
	plain := d.CreatePlainTask("read a book", testNow)
	today := d.CreateTodayTask("water plants", testNow)

	_, err := d.RenameFolder(defaultID, "Inbox")
	require.NoError(t, err)

	// Every copy carrying the folder id is rewritten: the flat list, the
	// weekday bucket, the today list and the folder itself.
	require.Len(t, d.Tasks, 1)
	assert.Equal(t, plain.ID, d.Tasks[0].ID)
	assert.Equal(t, "Inbox", d.Tasks[0].Folder)

	bucket := d.WeekTasks[int(testNow.Weekday())]
	require.Len(t, bucket.Tasks, 1)
	assert.Equal(t, today.ID, bucket.Tasks[0].ID)
	assert.Equal(t, "Inbox", bucket.Tasks[0].Folder)

	require.Len(t, d.TodayTasks, 1)
	assert.Equal(t, "Inbox", d.TodayTasks[0].Folder)

	for _, task := range d.Folders[0].Tasks {
		assert.Equal(t, "Inbox", task.Folder)
	}
}

func TestDeleteFolder_RemovesOwnedTasksEverywhere(t *testing.T) {
	d := newData()
	folder := d.CreateFolder("Chores")
	task, err := d.CreateFolderTask("mow lawn", folder.ID, nil, testNow)
	require.NoError(t, err)
	_, err = d.AddTaskToToday(task.ID, testNow)
	require.NoError(t, err)

	keep := d.CreateTodayTask("water plants", testNow)

	require.NoError(t, d.DeleteFolder(folder.ID))

	assert.Nil(t, d.FolderByID(folder.ID))
	flat, folders, today, week := countCopies(d, task.ID)
	assert.Zero(t, flat+folders+today+week)

	// Tasks of other folders survive.
	_, _, today, _ = countCopies(d, keep.ID)
	assert.Equal(t, 1, today)
}

func TestDeleteFolder_ProtectedFolderRefused(t *testing.T) {
	d := newData()
	d.CreateTodayTask("water plants", testNow)
	before := len(d.Folders[0].Tasks)

	err := d.DeleteFolder(d.Folders[0].ID)
	assert.ErrorIs(t, err, ErrFolderProtected)

	// Nothing changed.
	require.Len(t, d.Folders, 1)
	assert.Len(t, d.Folders[0].Tasks, before)
	assert.Len(t, d.TodayTasks, 1)
}

func TestDeleteTask_RemovesEveryCopy(t *testing.T) {
	d := newData()
	task := d.CreateTodayTask("water plants", testNow)

	require.NoError(t, d.DeleteTask(task.ID))

	flat, folders, today, week := countCopies(d, task.ID)
	assert.Zero(t, flat+folders+today+week)

	assert.ErrorIs(t, d.DeleteTask(task.ID), ErrTaskNotFound)
}

func TestDeleteTask_FolderOnlyCopy(t *testing.T) {
	d := newData()
	folder := d.CreateFolder("Chores")
	task, err := d.CreateFolderTask("mow lawn", folder.ID, nil, testNow)
	require.NoError(t, err)

	require.NoError(t, d.DeleteTask(task.ID))
	assert.Empty(t, d.FolderByID(folder.ID).Tasks)
}

func TestSearchTasks_CaseInsensitiveAndDeduplicated(t *testing.T) {
	d := newData()
	task := d.CreateTodayTask("Water Plants", testNow)
	d.CreatePlainTask("buy watering can", testNow)
	d.CreatePlainTask("unrelated", testNow)

	results := d.SearchTasks("water")
	require.Len(t, results, 2)

	// The today task lives in three collections but is reported once, and
	// the today copy wins.
	seen := 0
	for _, r := range results {
		if r.ID == task.ID {
			seen++
		}
	}
	assert.Equal(t, 1, seen)
}

func TestAllFolderTasks_DecoratesWithFolderInfo(t *testing.T) {
	d := newData()
	folder := d.CreateFolder("Chores")
	_, err := d.CreateFolderTask("mow lawn", folder.ID, nil, testNow)
	require.NoError(t, err)
	d.CreatePlainTask("read a book", testNow)

	tasks := d.AllFolderTasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, DefaultFolderName, tasks[0].Folder)
	assert.Equal(t, "Chores", tasks[1].Folder)
	assert.Equal(t, folder.ID, tasks[1].FolderID)
}
