package models

// DocumentMetadata identifies where a retrieved passage came from.
type DocumentMetadata struct {
	DrugName  string `db:"drug_name"  json:"drug_name"           yaml:"drug_name"`
	Field     string `db:"field"      json:"field,omitempty"     yaml:"field,omitempty"`
	ItemCode  string `db:"item_code"  json:"item_code"           yaml:"item_code"`
	SourceRow int    `db:"source_row" json:"source_row"          yaml:"source_row"`
}

// Document is a single passage of the drug-information corpus.
type Document struct {
	Content  string           `db:"content" json:"content"  yaml:"content"`
	Metadata DocumentMetadata `json:"metadata" yaml:"metadata"`
}

// AnswerResult pairs generated answer text with the passages it was grounded on.
type AnswerResult struct {
	AnswerText      string     `json:"answer_text"      yaml:"answer_text"`
	SourceDocuments []Document `json:"source_documents" yaml:"source_documents"`
}
