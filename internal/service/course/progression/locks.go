package progression

import (
	"certifree/internal/models"

	"github.com/google/uuid"
)

// Lock evaluation is derived from the course graph and the enrollment
// snapshot alone. Nothing here caches or mutates.

// LessonsCompleted reports whether every lesson of the module is present
// in the enrollment progress array.
func LessonsCompleted(m models.ModuleContent, e models.Enrollment) bool {
	for _, l := range m.Lessons {
		if !e.HasLesson(l.Order) {
			return false
		}
	}
	return true
}

// ModuleCompleted is the completion predicate: every lesson done and the
// module quiz passed. A module without a quiz counts as quiz-passed.
func ModuleCompleted(m models.ModuleContent, e models.Enrollment) bool {
	if !LessonsCompleted(m, e) {
		return false
	}
	if m.Quiz == nil {
		return true
	}
	return e.HasPassedQuiz(m.Quiz.ID)
}

// CompletedModules counts modules satisfying the completion predicate.
func CompletedModules(c models.CourseContent, e models.Enrollment) int {
	n := 0
	for _, m := range c.Modules {
		if ModuleCompleted(m, e) {
			n++
		}
	}
	return n
}

// AllModulesCompleted reports whether the whole module sequence is done.
func AllModulesCompleted(c models.CourseContent, e models.Enrollment) bool {
	for _, m := range c.Modules {
		if !ModuleCompleted(m, e) {
			return false
		}
	}
	return true
}

// ModuleLockedAt reports whether the module at index i of the ordered
// module list is locked. The first module is never locked; any later
// module is locked until its predecessor is completed.
func ModuleLockedAt(c models.CourseContent, e models.Enrollment, i int) bool {
	if i <= 0 {
		return false
	}
	return !ModuleCompleted(c.Modules[i-1], e)
}

// ModuleLocked resolves a module by id and evaluates its lock.
// Unknown modules are reported as locked.
func ModuleLocked(c models.CourseContent, e models.Enrollment, moduleID uuid.UUID) bool {
	for i, m := range c.Modules {
		if m.Module.ID == moduleID {
			return ModuleLockedAt(c, e, i)
		}
	}
	return true
}

// ModuleQuizLocked reports whether the module quiz may be attempted.
// The quiz stays locked until the owning module is reachable and every
// one of its lessons is complete, not merely unlocked.
func ModuleQuizLocked(c models.CourseContent, e models.Enrollment, i int) bool {
	if ModuleLockedAt(c, e, i) {
		return true
	}
	return !LessonsCompleted(c.Modules[i], e)
}

// FinalQuizLocked gates the course final quiz on every module being
// completed.
func FinalQuizLocked(c models.CourseContent, e models.Enrollment) bool {
	return !AllModulesCompleted(c, e)
}

// QuizLocked evaluates the lock for any quiz of the course by id.
// Unknown quizzes are reported as locked.
func QuizLocked(c models.CourseContent, e models.Enrollment, quizID uuid.UUID) bool {
	for i, m := range c.Modules {
		if m.Quiz != nil && m.Quiz.ID == quizID {
			return ModuleQuizLocked(c, e, i)
		}
	}
	if c.FinalQuiz != nil && c.FinalQuiz.ID == quizID {
		return FinalQuizLocked(c, e)
	}
	return true
}

// CourseCompleted is the certificate gating predicate: all modules done
// and, when the course defines a final quiz, that quiz passed.
func CourseCompleted(c models.CourseContent, e models.Enrollment) bool {
	if !AllModulesCompleted(c, e) {
		return false
	}
	if c.FinalQuiz == nil {
		return true
	}
	return e.HasPassedQuiz(c.FinalQuiz.ID)
}

// ModuleLockState is the per-module accessibility view handed to the UI.
type ModuleLockState struct {
	ModuleID   uuid.UUID `json:"module_id"`
	Locked     bool      `json:"locked"`
	QuizLocked bool      `json:"quiz_locked"`
	Completed  bool      `json:"completed"`
}

// LockState is the full accessibility snapshot for one enrollment.
type LockState struct {
	Modules         []ModuleLockState `json:"modules"`
	FinalQuizLocked bool              `json:"final_quiz_locked"`
}

// Locks derives the complete lock state in one pass.
func Locks(c models.CourseContent, e models.Enrollment) LockState {
	st := LockState{
		Modules:         make([]ModuleLockState, 0, len(c.Modules)),
		FinalQuizLocked: FinalQuizLocked(c, e),
	}
	for i, m := range c.Modules {
		ms := ModuleLockState{
			ModuleID:  m.Module.ID,
			Locked:    ModuleLockedAt(c, e, i),
			Completed: ModuleCompleted(m, e),
		}
		if m.Quiz != nil {
			ms.QuizLocked = ModuleQuizLocked(c, e, i)
		}
		st.Modules = append(st.Modules, ms)
	}
	return st
}
