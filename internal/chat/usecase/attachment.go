package usecase

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"cyber-doctor/internal/chat"
)

type attachments struct {
	// audios holds one transcript per audio file, empty when recognition failed.
	audios      []string
	pdfs        []string
	docxs       []string
	texts       []string
	unsupported int
}

// text renders the readable attachments in the order audio, PDF, Word, plain text.
func (a attachments) text() string {
	var b strings.Builder
	for i, t := range a.audios {
		switch {
		case t == "":
			b.WriteString(promptAudioFailed)
		case strings.Contains(t, musicKeyword):
			b.WriteString(promptNoMusic)
		default:
			fmt.Fprintf(&b, attachmentAudio, i+1, t)
		}
	}
	for i, t := range a.pdfs {
		fmt.Fprintf(&b, attachmentPDF, i+1, t)
	}
	for i, t := range a.docxs {
		fmt.Fprintf(&b, attachmentDocx, i+1, t)
	}
	for i, t := range a.texts {
		fmt.Fprintf(&b, attachmentText, i+1, t)
	}
	return b.String()
}

// readAttachments sorts uploads by type. Documents that cannot be read count
// as unsupported. Audio that cannot be recognized keeps an empty transcript.
func (uc *implUseCase) readAttachments(ctx context.Context, files []chat.Attachment) attachments {
	var out attachments
	for _, f := range files {
		name := f.Name
		if name == "" {
			name = f.Path
		}
		ext := strings.ToLower(filepath.Ext(name))

		switch {
		case isAudioFile(ext):
			out.audios = append(out.audios, uc.transcribe(ctx, f.Path))
		case ext == ".pdf":
			text, err := pdfText(f.Path)
			if err != nil {
				uc.l.Warnf(ctx, "chat.readAttachments: read pdf %s: %v", name, err)
				out.unsupported++
				continue
			}
			out.pdfs = append(out.pdfs, text)
		case ext == ".docx":
			text, err := docxText(f.Path)
			if err != nil {
				out.unsupported++
				continue
			}
			out.docxs = append(out.docxs, text)
		case isTextFile(ext):
			text, err := readText(f.Path)
			if err != nil {
				out.unsupported++
				continue
			}
			out.texts = append(out.texts, text)
		default:
			out.unsupported++
		}
	}
	return out
}

func (uc *implUseCase) transcribe(ctx context.Context, path string) string {
	if uc.transcriber == nil {
		return ""
	}
	text, err := uc.transcriber.Transcribe(ctx, path)
	if err != nil {
		uc.l.Warnf(ctx, "chat.transcribe: %v", err)
		return ""
	}
	return text
}

func isAudioFile(ext string) bool {
	switch ext {
	case ".mp3", ".wav", ".m4a", ".ogg", ".flac", ".aac", ".amr":
		return true
	}
	return strings.HasPrefix(mime.TypeByExtension(ext), "audio/")
}

func isTextFile(ext string) bool {
	switch ext {
	case ".txt", ".md", ".csv", ".json", ".log":
		return true
	}
	return strings.HasPrefix(mime.TypeByExtension(ext), "text/")
}

func readText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	b, err := io.ReadAll(io.LimitReader(f, maxAttachmentBytes))
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(b), ""), nil
}

// pdfText returns the plain text of every page.
func pdfText(path string) (text string, err error) {
	// The reader panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: malformed pdf: %v", filepath.Base(path), r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	rd, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	b, err := io.ReadAll(io.LimitReader(rd, maxAttachmentBytes))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.ToValidUTF8(string(b), "")), nil
}

// docxText returns the paragraphs of a Word file, one per line.
func docxText(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", err
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()
		return paragraphs(io.LimitReader(rc, 8*maxAttachmentBytes))
	}
	return "", fmt.Errorf("%s: no word/document.xml", filepath.Base(path))
}

func paragraphs(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var (
		b      strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			inText = t.Name.Local == "t"
		case xml.EndElement:
			if t.Name.Local == "p" {
				b.WriteByte('\n')
			}
			inText = false
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return strings.TrimSpace(b.String()), nil
}
