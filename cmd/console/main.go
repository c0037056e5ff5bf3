package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/joho/godotenv"

	"thumbscope/pkg/common"
	"thumbscope/pkg/thumbscope/api"
	"thumbscope/pkg/thumbscope/domain"
	"thumbscope/pkg/thumbscope/infrastructure/web"
)

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
	thumbscope, err := api.NewAPI(config)
	if err != nil {
		return err
	}
	urlFinder := web.NewURLFinder()
	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer func() {
		_ = rl.Close()
	}()
	fmt.Println("Enter the path or URL of a thumbnail to analyze it. Commands: :save [path], :raw")
	var lastReport *domain.SynthesisReport
	var lastBundle *domain.AnalysisBundle
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			runCommand(thumbscope, line[1:], lastReport, lastBundle)
			continue
		}
		report, bundle := analyze(thumbscope, urlFinder, line)
		if report != nil {
			lastReport = report
			lastBundle = report.Bundle
		} else if bundle != nil {
			lastBundle = bundle
		}
	}
	return nil
}

// analyze loads the image behind `input` (a local path or a URL), runs the pipeline and
// prints the outcome. Returns whatever survived for the :save and :raw commands.
func analyze(thumbscope api.API, urlFinder *web.URLFinder, input string) (*domain.SynthesisReport, *domain.AnalysisBundle) {
	content, err := loadImage(urlFinder, input)
	if err != nil {
		fmt.Println(err)
		return nil, nil
	}
	mime := common.DetectImageMIME(content)
	if mime == "" {
		fmt.Println("this doesn't look like a supported image (JPEG, PNG or GIF)")
		return nil, nil
	}
	fmt.Println("Analyzing...")
	report, err := thumbscope.AnalyzeImage(context.Background(), content, mime)
	if err != nil {
		var totalFailure *domain.TotalAnalysisFailure
		if errors.As(err, &totalFailure) {
			fmt.Println("No analysis could be produced.")
			fmt.Printf("  feature detection: %v\n", totalFailure.DetectionErr)
			fmt.Printf("  scene description: %v\n", totalFailure.DescriptionErr)
			return nil, nil
		}
		var synthesisFailure *domain.SynthesisFailure
		if errors.As(err, &synthesisFailure) {
			fmt.Println("Synthesis did not complete; here's the raw analysis instead:")
			fmt.Print(api.FormatBundle(synthesisFailure.Bundle))
			fmt.Printf("(synthesis error: %v)\n", synthesisFailure.Cause)
			return nil, synthesisFailure.Bundle
		}
		fmt.Println(err)
		return nil, nil
	}
	fmt.Println(report.Narrative)
	return report, report.Bundle
}

func runCommand(thumbscope api.API, command string, lastReport *domain.SynthesisReport, lastBundle *domain.AnalysisBundle) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return
	}
	switch fields[0] {
	case "save":
		if lastReport == nil {
			fmt.Println("nothing to save yet")
			return
		}
		path := ""
		if len(fields) > 1 {
			path = fields[1]
		}
		written, err := thumbscope.SaveReport(lastReport, path)
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Printf("saved to %s\n", written)
	case "raw":
		if lastBundle == nil {
			fmt.Println("no analysis yet")
			return
		}
		fmt.Print(api.FormatBundle(lastBundle))
	default:
		fmt.Printf("unknown command: %s\n", fields[0])
	}
}

func loadImage(urlFinder *web.URLFinder, input string) ([]byte, error) {
	urls := urlFinder.FindURLs(input)
	if len(urls) != 0 {
		url := urls[0] // let's do it with only one image so far
		if !common.IsImageFormat(url) {
			return nil, fmt.Errorf("%s doesn't look like an image URL", url)
		}
		return common.ReadAllFromURL(context.Background(), url)
	}
	return os.ReadFile(input)
}
