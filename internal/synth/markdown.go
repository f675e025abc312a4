package synth

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	reHeaderH3 = regexp.MustCompile(`(?m)^### (.+)$`)
	reHeaderH2 = regexp.MustCompile(`(?m)^## (.+)$`)
	reHeaderH1 = regexp.MustCompile(`(?m)^# (.+)$`)
	reBold     = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reItalic   = regexp.MustCompile(`\*(.+?)\*`)

	rePaperNum     = regexp.MustCompile(`Paper (\d+)`)
	reDigits       = regexp.MustCompile(`\d+`)
	reMultiPaper   = regexp.MustCompile(`\[(Paper \d+(?:,\s*Paper \d+)+)\]`)
	reMixedPaper   = regexp.MustCompile(`\[(Paper \d+(?:,\s*\d+)+)\]`)
	rePapersPlural = regexp.MustCompile(`\[Papers (\d+(?:,\s*\d+)+)\]`)
	reSinglePaper  = regexp.MustCompile(`\[Paper (\d+)\]`)
)

// MarkdownToHTML converts the model's markdown synthesis into HTML.
// Headers, bold, and italic markers are translated, and every paper
// citation becomes a link carrying tooltip data attributes resolved
// against the index. Citations of unknown paper numbers render as a
// marked span rather than a link.
func MarkdownToHTML(text string, index []IndexEntry) string {
	if text == "" {
		return ""
	}

	byNumber := make(map[int]IndexEntry, len(index))
	for _, entry := range index {
		byNumber[entry.Number] = entry
	}

	text = reHeaderH3.ReplaceAllString(text, `<h3 style="color: #1c3664; font-weight: 600; margin-top: 25px;">$1</h3>`)
	text = reHeaderH2.ReplaceAllString(text, `<h2 style="color: #1c3664; font-weight: 600; margin-top: 30px;">$1</h2>`)
	text = reHeaderH1.ReplaceAllString(text, `<h1 style="color: #1c3664; font-weight: 600; margin-top: 20px;">$1</h1>`)
	text = reBold.ReplaceAllString(text, "<strong>$1</strong>")
	text = reItalic.ReplaceAllString(text, "<em>$1</em>")

	paperLink := func(num int) string {
		entry, ok := byNumber[num]
		if !ok {
			return fmt.Sprintf(`<span class="paper-ref paper-ref-missing" data-paper-id="%d">[Paper %d]</span>`, num, num)
		}
		title := strings.NewReplacer(`"`, "&quot;", "'", "&#39;").Replace(entry.Title)
		pdfAttr := ""
		if entry.PDFURL != "" {
			pdfAttr = fmt.Sprintf(` data-pdf-url="%s"`, entry.PDFURL)
		}
		return fmt.Sprintf(`<a class="paper-ref" href="%s" target="_blank" data-paper-id="%d" data-title="%s" data-score="%.2f" data-categories="%s"%s>[Paper %d]</a>`,
			entry.PDFURL, entry.Number, title, entry.Score, strings.Join(entry.Categories, ", "), pdfAttr, entry.Number)
	}

	linkList := func(nums []int) string {
		links := make([]string, len(nums))
		for i, n := range nums {
			links[i] = paperLink(n)
		}
		return "[" + strings.Join(links, ", ") + "]"
	}

	// [Paper 11, Paper 18, Paper 30]
	text = reMultiPaper.ReplaceAllStringFunc(text, func(match string) string {
		content := reMultiPaper.FindStringSubmatch(match)[1]
		var nums []int
		for _, m := range rePaperNum.FindAllStringSubmatch(content, -1) {
			n, _ := strconv.Atoi(m[1])
			nums = append(nums, n)
		}
		return linkList(nums)
	})

	// [Paper 2, 19, 24] and [Papers 13, 111, 179]
	mixed := func(match, content string) string {
		var nums []int
		for _, m := range reDigits.FindAllString(content, -1) {
			n, _ := strconv.Atoi(m)
			nums = append(nums, n)
		}
		if len(nums) == 0 {
			return match
		}
		return linkList(nums)
	}
	text = reMixedPaper.ReplaceAllStringFunc(text, func(match string) string {
		return mixed(match, reMixedPaper.FindStringSubmatch(match)[1])
	})
	text = rePapersPlural.ReplaceAllStringFunc(text, func(match string) string {
		return mixed(match, rePapersPlural.FindStringSubmatch(match)[1])
	})

	// [Paper 5]
	text = reSinglePaper.ReplaceAllStringFunc(text, func(match string) string {
		n, _ := strconv.Atoi(reSinglePaper.FindStringSubmatch(match)[1])
		return paperLink(n)
	})

	return paragraphs(text)
}

// paragraphs wraps double-newline blocks in <p> tags, leaving heading
// blocks untouched and turning inner newlines into <br>.
func paragraphs(text string) string {
	blocks := strings.Split(text, "\n\n")
	out := make([]string, 0, len(blocks))
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		if strings.HasPrefix(block, "<h") {
			out = append(out, block)
			continue
		}
		out = append(out, "<p>"+strings.ReplaceAll(block, "\n", "<br>")+"</p>")
	}
	return strings.Join(out, "\n\n")
}
