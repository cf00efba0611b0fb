package validation

// messages overrides the generic translated message for a field/tag pair.
// Keys are "<StructField>.<tag>".
var messages = map[string]string{
	"Title.required":        "Please give your course a title",
	"Description.required":  "Please describe what your course is about",
	"Category.required":     "Please choose a category",
	"Language.required":     "Please choose the language the course is taught in",
	"DifficultyLevel.oneof": "Difficulty level must be beginner, intermediate, advanced or all levels",

	"EstimatedDuration.gte": "Estimated duration cannot be negative",
	"EstimatedDuration.lte": "Estimated duration is too long (maximum 1000 hours)",

	"Price.gte":          "Price cannot be negative",
	"Price.lte":          "Price is too high (maximum 10,000,000)",
	"Currency.required":  "Please choose a currency",
	"Currency.iso4217":   "Currency must be a valid ISO 4217 code",
	"MaxEnrollments.gte": "Maximum enrollments cannot be negative",

	"Status.oneof":                    "Status must be draft or published",
	"EnrollmentEnd.enrollment_window": "Enrollment must close after it opens",
}

// Message returns the microcopy registered for a field/tag pair.
func Message(field, tag string) (string, bool) {
	msg, ok := messages[field+"."+tag]
	return msg, ok
}
