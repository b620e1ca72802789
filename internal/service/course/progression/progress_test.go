package progression

import "testing"

func TestOverallFreshEnrollmentWithQuizlessModules(t *testing.T) {
	// Module quizzes absent: the 30% quiz share is granted from the start,
	// so a fresh enrollment already reads 30.
	c := buildCourse([]int{2, 2}, []bool{false, false}, 0, 0, false)
	e := enrolled(c)

	if got := Overall(c, e); got != 30 {
		t.Errorf("expected 30 for fresh enrollment in quizless course, got %d", got)
	}
}

func TestOverallWeighting(t *testing.T) {
	c := buildCourse([]int{2, 2}, []bool{true, true}, 50, 1, false)
	e := enrolled(c)

	if got := Overall(c, e); got != 0 {
		t.Errorf("expected 0 on fresh enrollment, got %d", got)
	}

	// Half the lessons: 0.5*0.7*100 = 35.
	e = completeLessons(c, e, 0)
	if got := Overall(c, e); got != 35 {
		t.Errorf("expected 35 after half the lessons, got %d", got)
	}

	// Plus one of two module quizzes: 35 + 0.5*0.3*100 = 50.
	e = passQuiz(e, c.Modules[0].Quiz.ID)
	if got := Overall(c, e); got != 50 {
		t.Errorf("expected 50, got %d", got)
	}

	e = completeLessons(c, e, 1)
	e = passQuiz(e, c.Modules[1].Quiz.ID)
	if got := Overall(c, e); got != 100 {
		t.Errorf("expected 100 once everything is done, got %d", got)
	}
}

func TestOverallRounds(t *testing.T) {
	// One of three lessons: 1/3*0.7*100 = 23.33 -> 23. Quizless modules
	// grant the 30 share, total 53.33 -> 53.
	c := buildCourse([]int{3}, []bool{false}, 0, 0, false)
	e := enrolled(c)
	e.ProgressArray = append(e.ProgressArray, c.Modules[0].Lessons[0].Order)

	if got := Overall(c, e); got != 53 {
		t.Errorf("expected 53, got %d", got)
	}

	// Two of three: 46.67 + 30 = 76.67 -> 77.
	e.ProgressArray = append(e.ProgressArray, c.Modules[0].Lessons[1].Order)
	if got := Overall(c, e); got != 77 {
		t.Errorf("expected 77, got %d", got)
	}
}

func TestOverallPinnedAt99UntilFinalQuizPassed(t *testing.T) {
	c := buildCourse([]int{1, 1}, []bool{true, false}, 50, 1, true)
	e := enrolled(c)
	e = completeLessons(c, e, 0)
	e = passQuiz(e, c.Modules[0].Quiz.ID)
	e = completeLessons(c, e, 1)

	if got := Overall(c, e); got != 99 {
		t.Errorf("expected 99 with final quiz unpassed, got %d", got)
	}

	e = passQuiz(e, c.FinalQuiz.ID)
	if got := Overall(c, e); got != 100 {
		t.Errorf("expected 100 after final quiz passed, got %d", got)
	}
}

func TestOverallIgnoresStaleProgressEntries(t *testing.T) {
	c := buildCourse([]int{2}, []bool{false}, 0, 0, false)
	e := enrolled(c)
	e.ProgressArray = []int{1, 2, 99, 150}

	if got := Overall(c, e); got != 100 {
		t.Errorf("orders that match no lesson must not affect the value, got %d", got)
	}
}

func TestOverallMonotonicUnderForwardActions(t *testing.T) {
	c := buildCourse([]int{2, 1}, []bool{true, false}, 80, 2, true)
	e := enrolled(c)
	prev := Overall(c, e)

	step := func(next func() ) {
		next()
		cur := Overall(c, e)
		if cur < prev {
			t.Fatalf("progress decreased from %d to %d", prev, cur)
		}
		prev = cur
	}

	step(func() { e.ProgressArray = append(e.ProgressArray, c.Modules[0].Lessons[0].Order) })
	step(func() { e.ProgressArray = append(e.ProgressArray, c.Modules[0].Lessons[1].Order) })
	step(func() { e = passQuiz(e, c.Modules[0].Quiz.ID) })
	step(func() { e = completeLessons(c, e, 1) })
	step(func() { e = passQuiz(e, c.FinalQuiz.ID) })

	if prev != 100 {
		t.Errorf("expected the walk to end at 100, got %d", prev)
	}
}
