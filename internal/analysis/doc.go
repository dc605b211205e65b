// Package analysis links exam questions to their student responses and
// computes per-question response statistics.
//
// Questions and responses are addressed by their zero-based row position in
// the question and response sources. A question's responses are the response
// rows whose exam and q_number both equal the question's. A question with no
// such responses is an error rather than a question with zero fractions.
//
//	a := analysis.New(records.NewSourceLoader(records.Options{IndexColumn: true}, logger), logger)
//	qs, err := a.QuestionsFromIDs(ctx, []int{3, 1, 2}, "question_config.csv", "response_config.csv")
package analysis
