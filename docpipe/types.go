package docpipe

// Format identifies a draft document type.
type Format string

const (
	FormatTXT  Format = "txt"
	FormatDocx Format = "docx"
	FormatPDF  Format = "pdf"
)

// Draft is the result of loading a draft file: the raw text plus its
// originating format. It is consumed once by the segmenter.
type Draft struct {
	Path   string `json:"path"`
	Format Format `json:"format"`
	Text   string `json:"text"`
}
