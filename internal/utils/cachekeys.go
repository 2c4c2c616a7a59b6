package utils

import "fmt"

func BoardDetailKey(boardID uint64) string {
	return fmt.Sprintf("board:%d:detail", boardID)
}

func BoardListKey(userID uint64) string {
	return fmt.Sprintf("boards:user:%d", userID)
}

// TaskListKey is one cached filtered task list of a board; filter is a short
// hash of the query.
func TaskListKey(boardID uint64, filter string) string {
	return fmt.Sprintf("tasks:board:%d:%s", boardID, filter)
}

func TaskListPattern(boardID uint64) string {
	return fmt.Sprintf("tasks:board:%d:*", boardID)
}

func AssignedTasksKey(userID uint64) string {
	return fmt.Sprintf("tasks:assigned:%d", userID)
}

func EmailSentKey(jobID string) string {
	return "email:sent:" + jobID
}
