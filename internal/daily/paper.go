package daily

// Paper is one research entry as served by the AI Daily API. An absent
// pdf_url decodes to the empty string, which the UI treats as the
// "no document available" sentinel.
type Paper struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	URL            string   `json:"url"`
	Authors        []string `json:"authors"`
	Published      string   `json:"published"`
	Summary        string   `json:"summary"`
	DOI            string   `json:"doi,omitempty"`
	PDFURL         string   `json:"pdf_url"`
	SummarizedText string   `json:"summarized_text,omitempty"`
}

// HasPDF reports whether the paper carries a readable source document.
func (p Paper) HasPDF() bool {
	return p.PDFURL != ""
}

// HasSummary reports whether a prior summarization already produced text.
func (p Paper) HasSummary() bool {
	return p.SummarizedText != ""
}
