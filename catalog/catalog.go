// Package catalog holds the authoritative in-memory set of job records.
// The catalog is loaded once from a CSV source and is read-only afterwards,
// so it is safe to share across concurrent requests.
package catalog

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Job is a single denormalized job record.
type Job struct {
	JobID       int64  `json:"job_id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Skills      string `json:"skills"`
	Experience  string `json:"experience"`
	Description string `json:"description"`
}

// Catalog is an immutable lookup over the loaded job records.
type Catalog struct {
	jobs []Job
	byID map[int64]Job
}

var titleCaser = cases.Title(language.English)

// NormalizeLocation trims and title-cases a location value. It is the single
// canonical normalization used at load time, index time, and query time;
// an equality filter only matches when all three agree.
func NormalizeLocation(s string) string {
	return titleCaser.String(strings.TrimSpace(strings.ToLower(s)))
}

// NormalizeExperience trims an experience value. Case and format are passed
// through untouched ("2-5" stays "2-5").
func NormalizeExperience(s string) string {
	return strings.TrimSpace(s)
}

// EmbeddingText returns the text embedded for a job: title, skills, and
// description, space-joined in that order.
func EmbeddingText(j Job) string {
	return j.Title + " " + j.Skills + " " + j.Description
}

// Load reads the full catalog from a CSV file with the columns
// job_id, title, company, location, skills, experience, description.
// Location and experience are normalized on load.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open catalog %s", path)
	}
	defer f.Close()

	return load(f, path)
}

func load(r io.Reader, name string) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 7

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read catalog header from %s", name)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(strings.ToLower(h))] = i
	}
	for _, required := range []string{"job_id", "title", "company", "location", "skills", "experience", "description"} {
		if _, ok := col[required]; !ok {
			return nil, errors.Errorf("catalog %s is missing column %q", name, required)
		}
	}

	c := &Catalog{byID: make(map[int64]Job)}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read catalog record at line %d", line)
		}

		id, err := strconv.ParseInt(strings.TrimSpace(record[col["job_id"]]), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid job_id at line %d", line)
		}

		if _, dup := c.byID[id]; dup {
			return nil, errors.Errorf("duplicate job_id %d at line %d", id, line)
		}
		job := Job{
			JobID:       id,
			Title:       record[col["title"]],
			Company:     record[col["company"]],
			Location:    NormalizeLocation(record[col["location"]]),
			Skills:      record[col["skills"]],
			Experience:  NormalizeExperience(record[col["experience"]]),
			Description: record[col["description"]],
		}
		c.byID[id] = job
		c.jobs = append(c.jobs, job)
	}

	return c, nil
}

// Get returns the job for id. The second return is false for unknown ids.
func (c *Catalog) Get(id int64) (Job, bool) {
	job, ok := c.byID[id]
	return job, ok
}

// Jobs returns all records in load order. Callers must not mutate the slice.
func (c *Catalog) Jobs() []Job {
	return c.jobs
}

// Size returns the number of loaded records.
func (c *Catalog) Size() int {
	return len(c.jobs)
}
