package folder

import (
	"path/filepath"
	"strings"
	"time"
)

// Classification is the category and ordered tag set derived for one folder.
type Classification struct {
	Category string
	Tags     []string
}

// Fallbacks when no rule matches.
const (
	CategoryOther = "其他"
	tagOrdinary   = "普通"
)

// pathRule maps path keywords to a tag and a candidate category.
// Rules are checked in order; every matching rule contributes its tag, the
// first matching rule wins the category.
type pathRule struct {
	keywords []string
	tag      string
	category string
}

// Keyword sets are matched case-insensitively against the full path string.
var pathRules = []pathRule{
	{[]string{"project", "github", "gitlab", "src", "code", "dev", "repo", "工程", "开发", "代码"}, "开发", "开发项目"},
	{[]string{"work", "office", "report", "meeting", "办公", "工作", "会议"}, "工作", "工作文档"},
	{[]string{"study", "learn", "course", "lecture", "note", "学习", "课程", "笔记"}, "学习", "学习资料"},
	{[]string{"movie", "video", "music", "photo", "picture", "camera", "视频", "音乐", "图片", "照片", "影音"}, "影音", "多媒体"},
	{[]string{"download", "temp", "tmp", "cache", "下载", "临时"}, "下载", "下载临时"},
	{[]string{"game", "steam", "epic games", "游戏"}, "游戏", "游戏"},
	{[]string{"windows", "system32", "program files", "appdata", "/etc", "/usr", "系统"}, "系统", "系统文件"},
}

// Extension sets for the shallow-listing refinement.
var (
	codeExts = map[string]bool{
		".go": true, ".py": true, ".js": true, ".ts": true, ".java": true,
		".c": true, ".cpp": true, ".h": true, ".rs": true, ".rb": true,
		".php": true, ".cs": true, ".sh": true, ".kt": true, ".swift": true,
	}
	imageExts = map[string]bool{
		".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
		".bmp": true, ".webp": true, ".svg": true, ".heic": true,
	}
	documentExts = map[string]bool{
		".doc": true, ".docx": true, ".pdf": true, ".txt": true, ".md": true,
		".xls": true, ".xlsx": true, ".ppt": true, ".pptx": true, ".odt": true,
	}
)

// Refinement tags are skipped when the matching path-keyword tag is already
// set, to avoid tagging the same signal twice.
const (
	tagCode     = "code"
	tagImage    = "image"
	tagDocument = "document"
)

// refinementLimit bounds how many listing entries the refinement inspects.
const refinementLimit = 10

// Usage and recency tag thresholds.
const (
	frequentCount = 10
	oftenCount    = 5

	recentDays   = 3
	thisWeekDays = 7
)

// Classify derives the full category and tag set for a folder. Deterministic
// and idempotent: identical inputs yield an identical Classification and
// thus an identical auto comment. listing may be nil (listing failed or
// skipped), in which case only path, usage and recency rules apply.
func Classify(path string, usage *Usage, listing *Listing, now time.Time) Classification {
	c := ClassifyStatic(path, listing)

	if usage != nil {
		c.addUsageTags(usage, now)
	}

	return c
}

// ClassifyStatic derives the stable path+listing part of a classification.
// It depends only on the path string and the directory contents, so the scan
// cache can store it keyed by directory mtime; usage and recency tags are
// appended on top by Classify.
func ClassifyStatic(path string, listing *Listing) Classification {
	var c Classification

	lower := strings.ToLower(path)

	for _, rule := range pathRules {
		if !matchesAny(lower, rule.keywords) {
			continue
		}

		c.addTag(rule.tag)

		if c.Category == "" {
			c.Category = rule.category
		}
	}

	if listing != nil {
		c.refineFromListing(listing)
	}

	if c.Category == "" {
		c.Category = CategoryOther
	}

	return c
}

// refineFromListing inspects the first few listing entries for telltale file
// extensions. Each refinement tag applies only when the corresponding
// path-keyword tag is absent.
func (c *Classification) refineFromListing(listing *Listing) {
	entries := listing.Entries
	if len(entries) > refinementLimit {
		entries = entries[:refinementLimit]
	}

	var sawCode, sawImage, sawDocument bool

	for _, e := range entries {
		if e.IsDir {
			continue
		}

		ext := strings.ToLower(filepath.Ext(e.Name))

		switch {
		case codeExts[ext]:
			sawCode = true
		case imageExts[ext]:
			sawImage = true
		case documentExts[ext]:
			sawDocument = true
		}
	}

	if sawCode && !c.hasTag("开发") {
		c.addTag(tagCode)

		if c.Category == "" {
			c.Category = "开发项目"
		}
	}

	if sawImage && !c.hasTag("影音") {
		c.addTag(tagImage)
	}

	if sawDocument && !c.hasTag("工作") {
		c.addTag(tagDocument)
	}
}

// addUsageTags appends frequency and recency tags. These apply regardless of
// path-based tags.
func (c *Classification) addUsageTags(usage *Usage, now time.Time) {
	switch {
	case usage.Count >= frequentCount:
		c.addTag("常用")
	case usage.Count >= oftenCount:
		c.addTag("经常")
	}

	last := usage.LastOpened
	if last.IsZero() {
		return
	}

	ly, lm, ld := last.Date()
	ny, nm, nd := now.Date()

	age := now.Sub(last)

	switch {
	case ly == ny && lm == nm && ld == nd:
		c.addTag("今天")
	case age <= recentDays*24*time.Hour:
		c.addTag("最近")
	case age <= thisWeekDays*24*time.Hour:
		c.addTag("本周")
	}
}

// Comment renders the auto-comment string: "[category] tag | tag".
// When classification ran explicitly for a single folder and produced no
// tags, the ordinary fallback keeps the comment non-empty.
func (c Classification) Comment() string {
	tags := c.Tags
	if len(tags) == 0 {
		tags = []string{tagOrdinary}
	}

	return autoCommentPrefix + c.Category + "] " + strings.Join(tags, " | ")
}

func (c *Classification) addTag(tag string) {
	if c.hasTag(tag) {
		return
	}

	c.Tags = append(c.Tags, tag)
}

func (c *Classification) hasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}

	return false
}

func matchesAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	return false
}

// cutCategory splits an auto comment "[category] rest" into its parts.
func cutCategory(comment string) (category, rest string, ok bool) {
	if !strings.HasPrefix(comment, autoCommentPrefix) {
		return "", "", false
	}

	closing := strings.Index(comment, "]")
	if closing < 0 {
		return "", "", false
	}

	category = comment[1:closing]
	rest = strings.TrimSpace(comment[closing+1:])

	return category, rest, true
}

// splitTags splits the tag part of an auto comment on " | ".
func splitTags(rest string) []string {
	parts := strings.Split(rest, "|")

	tags := make([]string, 0, len(parts))

	for _, p := range parts {
		if tag := strings.TrimSpace(p); tag != "" {
			tags = append(tags, tag)
		}
	}

	return tags
}
