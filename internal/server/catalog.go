// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"fmt"
	"strings"
)

// Book is one catalog entry the development agent recommends from.
type Book struct {
	Title       string
	Author      string
	ISBN        string
	Genre       string
	Rating      float64
	Description string
	Year        int
}

// catalog is the built-in book set. Enough variety to exercise search,
// genre recommendation, and detail lookups offline.
var catalog = []Book{
	{"三体", "刘慈欣", "9787536692930", "科幻", 9.0, "地球文明向宇宙发出第一声啼鸣，取得了探寻外星文明的突破性进展。", 2006},
	{"流浪地球", "刘慈欣", "9787536692931", "科幻", 8.5, "太阳即将毁灭，人类在地球表面建造出巨大的推进器，寻找新家园。", 2008},
	{"球状闪电", "刘慈欣", "9787536692932", "科幻", 8.2, "一个关于球状闪电的科幻故事。", 2004},
	{"活着", "余华", "9787506365437", "文学", 9.2, "讲述了在大时代背景下一个普通人随社会变革起伏的一生。", 1993},
	{"许三观卖血记", "余华", "9787506365438", "文学", 8.8, "讲述了许三观靠着卖血渡过了人生的一个个难关。", 1995},
	{"百年孤独", "加西亚·马尔克斯", "9787544253994", "魔幻现实主义", 9.3, "描述了布恩迪亚家族七代人的传奇故事。", 1967},
	{"霍乱时期的爱情", "加西亚·马尔克斯", "9787544253995", "魔幻现实主义", 8.9, "讲述了一段跨越半个多世纪的爱情史诗。", 1985},
	{"1984", "乔治·奥威尔", "9787532749519", "反乌托邦", 9.1, "描绘了一个极权主义社会的恐怖景象。", 1949},
	{"动物农场", "乔治·奥威尔", "9787532749520", "反乌托邦", 8.7, "以动物为主角的政治寓言小说。", 1945},
	{"解忧杂货店", "东野圭吾", "9787544270878", "推理小说", 8.6, "只要把烦恼写下来投进杂货店的投信口，第二天就会收到回答。", 2012},
}

// WelcomeMessage is the greeting served by GET /welcome.
const WelcomeMessage = `👋 欢迎使用图书推荐Agent！

📚 我可以帮助您：
   • 搜索图书信息
   • 基于您浏览的图书推荐相似图书
   • 根据您的阅读偏好推荐图书
   • 分析您的阅读趋势
   • 提供个性化的图书推荐

💬 请告诉我您需要什么帮助吧！`

// helpMessage is the fallback reply when no keyword matches.
const helpMessage = "我是图书推荐助手，可以帮您：\n" +
	"• 搜索图书：'搜索《书名》'\n" +
	"• 推荐相似图书：'推荐《书名》的相似图书'\n" +
	"• 类型推荐：'推荐科幻类型图书'\n" +
	"• 查看详情：'《书名》的详细信息'"

// Respond answers one chat message with keyword dispatch over the catalog:
// search, similar-book recommendation, genre recommendation, detail lookup,
// and a help fallback.
func Respond(message string) string {
	switch {
	case strings.Contains(message, "搜索") || strings.Contains(message, "查找"):
		query := extractSubject(message, "搜索", "查找")
		return searchReply(query)
	case strings.Contains(message, "推荐") && strings.Contains(message, "相似"):
		title := extractSubject(message, "推荐", "相似", "的", "图书")
		return similarReply(title)
	case strings.Contains(message, "推荐") && strings.Contains(message, "类型"):
		genre := extractSubject(message, "推荐", "类型", "的", "图书")
		return genreReply(genre)
	case strings.Contains(message, "详情") || strings.Contains(message, "详细信息") || strings.Contains(message, "信息"):
		title := extractSubject(message, "详情", "详细信息", "信息", "的")
		return detailReply(title)
	default:
		return helpMessage
	}
}

// extractSubject strips the dispatch keywords and book-title brackets,
// leaving the subject of the request.
func extractSubject(message string, keywords ...string) string {
	s := message
	for _, kw := range keywords {
		s = strings.ReplaceAll(s, kw, "")
	}
	s = strings.ReplaceAll(s, "《", "")
	s = strings.ReplaceAll(s, "》", "")
	return strings.TrimSpace(s)
}

func searchReply(query string) string {
	if query == "" {
		return "请告诉我您想搜索的书名或作者。"
	}
	var matches []Book
	lower := strings.ToLower(query)
	for _, b := range catalog {
		if strings.Contains(strings.ToLower(b.Title), lower) ||
			strings.Contains(strings.ToLower(b.Author), lower) ||
			strings.Contains(strings.ToLower(b.Genre), lower) {
			matches = append(matches, b)
		}
	}
	if len(matches) == 0 {
		return "抱歉，没有找到相关图书。"
	}

	var sb strings.Builder
	sb.WriteString("🔍 找到以下图书：\n")
	for _, b := range matches {
		fmt.Fprintf(&sb, "• 《%s》- %s（%s，评分 %.1f/10）\n", b.Title, b.Author, b.Genre, b.Rating)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func similarReply(title string) string {
	current, ok := findBook(title)
	if !ok {
		return fmt.Sprintf("抱歉，没有找到图书《%s》。", title)
	}

	var recs []Book
	for _, b := range catalog {
		if b.Title == current.Title {
			continue
		}
		if b.Author == current.Author || b.Genre == current.Genre {
			recs = append(recs, b)
		}
	}
	if len(recs) == 0 {
		return "抱歉，无法找到相似图书。"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📖 基于《%s》，我推荐以下图书：\n", current.Title)
	for _, b := range recs {
		reason := "相似类型"
		if b.Author == current.Author {
			reason = "同一作者"
		}
		fmt.Fprintf(&sb, "• 《%s》- %s（评分 %.1f/10，%s）\n", b.Title, b.Author, b.Rating, reason)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func genreReply(genre string) string {
	if genre == "" {
		return "请告诉我您感兴趣的图书类型。"
	}
	var recs []Book
	for _, b := range catalog {
		if strings.Contains(b.Genre, genre) {
			recs = append(recs, b)
		}
	}
	if len(recs) == 0 {
		return fmt.Sprintf("抱歉，没有找到%s类型的图书。", genre)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🎯 推荐%s类型的图书：\n", genre)
	for _, b := range recs {
		fmt.Fprintf(&sb, "• 《%s》- %s（评分 %.1f/10）\n", b.Title, b.Author, b.Rating)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func detailReply(title string) string {
	b, ok := findBook(title)
	if !ok {
		return fmt.Sprintf("抱歉，没有找到图书《%s》。", title)
	}
	return fmt.Sprintf("📚 《%s》详细信息：\n"+
		"• 作者：%s\n"+
		"• 类型：%s\n"+
		"• 评分：%.1f/10\n"+
		"• 出版年份：%d\n"+
		"• ISBN：%s\n"+
		"• 简介：%s",
		b.Title, b.Author, b.Genre, b.Rating, b.Year, b.ISBN, b.Description)
}

func findBook(title string) (Book, bool) {
	for _, b := range catalog {
		if b.Title == title {
			return b, true
		}
	}
	// Loose match helps when the subject still carries stray words
	for _, b := range catalog {
		if title != "" && strings.Contains(title, b.Title) {
			return b, true
		}
	}
	return Book{}, false
}
