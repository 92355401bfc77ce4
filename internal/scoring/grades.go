package scoring

// Grade is one row of a grade table.
type Grade struct {
	MinScore int
	Grade    string
	Label    string
}

// Grades maps the canonical 0-850 score. The first row whose MinScore is met wins.
var Grades = []Grade{
	{800, "A+", "Excellent"},
	{740, "A", "Very Good"},
	{670, "B+", "Good"},
	{580, "B", "Fair"},
	{500, "C", "Poor"},
	{400, "D", "Very Poor"},
}

// DefaultGrade applies below the last row of Grades.
var DefaultGrade = Grade{0, "F", "Bad"}

// AssessmentGrades maps the 300-850 comprehensive score to grade and risk level.
var AssessmentGrades = []Grade{
	{800, "AAA", "Very Low"},
	{750, "AA", "Low"},
	{700, "A", "Low-Medium"},
	{650, "BBB", "Medium"},
	{600, "BB", "Medium-High"},
	{550, "B", "High"},
	{500, "CCC", "Very High"},
}

// DefaultAssessmentGrade applies below the last row of AssessmentGrades.
var DefaultAssessmentGrade = Grade{300, "D", "Default Risk"}

func mapGrade(score int, table []Grade, fallback Grade) Grade {
	for _, g := range table {
		if score >= g.MinScore {
			return g
		}
	}
	return fallback
}
