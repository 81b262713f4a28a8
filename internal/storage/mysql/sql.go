package mysql

const insertSubmissionSQL = `
INSERT INTO review_submissions
  (id, workshop_id, rating, review, success, error, submitted_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
`

// Newest first; aligns with index on (submitted_at, id).
const listSubmissionsSQL = "SELECT id, workshop_id, rating, review, success, error, submitted_at\n" +
	"FROM review_submissions\n" +
	"ORDER BY submitted_at DESC, id DESC\n" +
	"LIMIT ?"
