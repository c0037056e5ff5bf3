package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/whyrusleeping/hellabot"

	"thumbscope/pkg/common"
	"thumbscope/pkg/thumbscope/api"
	"thumbscope/pkg/thumbscope/domain"
	"thumbscope/pkg/thumbscope/infrastructure/web"
)

// maxIRCReplySize IRC messages are short, so long narratives get truncated.
const maxIRCReplySize = 400

func main() {
	err := mainImpl()
	if err != nil {
		panic(err)
	}
}

func mainImpl() error {
	_ = godotenv.Load()
	config, err := common.LoadConfig("config.yaml")
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		config = common.NewConfig()
	}
	botName := config.GetStringOrDefault("botName", "thumbscope")
	roomName := config.GetStringOrDefault("roomName", "thumbscope")
	serverName := config.GetStringOrDefault("serverName", "irc.euirc.net:6667")
	thumbscope, err := api.NewAPI(config)
	if err != nil {
		return err
	}
	urlFinder := web.NewURLFinder()
	ircBot, err := hbot.NewBot(serverName, botName)
	if err != nil {
		return err
	}
	var trigger = hbot.Trigger{
		Condition: func(b *hbot.Bot, m *hbot.Message) bool {
			return m.Command == "PRIVMSG"
		},
		Action: func(b *hbot.Bot, m *hbot.Message) bool {
			urls := urlFinder.FindURLs(m.Content)
			if len(urls) == 0 || !common.IsImageFormat(urls[0]) {
				return true
			}
			reply := analyzeURL(thumbscope, urls[0])
			if reply != "" {
				b.Reply(m, m.From+" "+reply)
			}
			return true
		},
	}
	ircBot.AddTrigger(trigger)
	ircBot.Channels = []string{"#" + roomName}
	ircBot.Run()
	return nil
}

func analyzeURL(thumbscope api.API, url string) string {
	content, err := common.ReadAllFromURL(context.Background(), url)
	if err != nil {
		return "couldn't load that image :("
	}
	mime := common.DetectImageMIME(content)
	if mime == "" {
		return "that doesn't look like an image I can analyze"
	}
	report, err := thumbscope.AnalyzeImage(context.Background(), content, mime)
	if err != nil {
		var synthesisFailure *domain.SynthesisFailure
		if errors.As(err, &synthesisFailure) {
			return "synthesis didn't complete, raw analysis: " + flatten(api.FormatBundle(synthesisFailure.Bundle))
		}
		return fmt.Sprintf("no analysis could be produced (%v)", err)
	}
	return flatten(report.Narrative)
}

func flatten(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > maxIRCReplySize {
		text = text[:maxIRCReplySize] + "..."
	}
	return text
}
