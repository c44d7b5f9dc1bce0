package service

import "errors"

// ErrAnalysisTimeout is returned by LessonService.Generate when transcript
// analysis does not finish within its budget.
var ErrAnalysisTimeout = errors.New("transcript analysis exceeded its time budget")
