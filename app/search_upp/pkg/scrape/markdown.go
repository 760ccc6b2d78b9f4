package scrape

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ToMarkdown 去掉 script/style 后，按文档顺序把标题、段落和列表转换成 markdown
func ToMarkdown(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style").Remove()

	var parts []string
	doc.Find("h1, h2, h3, h4, h5, h6, p, ul, ol").Each(func(_ int, s *goquery.Selection) {
		tag := goquery.NodeName(s)
		switch tag {
		case "p":
			if text := strings.TrimSpace(s.Text()); text != "" {
				parts = append(parts, text+"\n\n")
			}
		case "ul", "ol":
			parts = append(parts, "\n")
			s.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
				parts = append(parts, "* "+strings.TrimSpace(li.Text())+"\n")
			})
			parts = append(parts, "\n")
		default:
			level := int(tag[1] - '0')
			parts = append(parts, fmt.Sprintf("\n%s %s\n", strings.Repeat("#", level), strings.TrimSpace(s.Text())))
		}
	})

	return strings.Join(parts, "\n"), nil
}
