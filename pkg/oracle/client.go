package oracle

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	simv1 "github.com/uzairabid1/customer-simulator/pkg/apis/simulation/v1"
)

// Client is the OpenAI-backed Oracle. Every call gets its own timeout so a
// slow upstream degrades one customer, not the whole run.
type Client struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func NewClient(url, model string, timeout time.Duration) *Client {
	options := []option.RequestOption{}
	if url != "" {
		options = append(options, option.WithBaseURL(url))
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Info("OPENAI_API_KEY environment variable is not set, will try unauthenticated access")
	} else {
		options = append(options, option.WithAPIKey(apiKey))
	}

	client := openai.NewClient(options...)
	return &Client{client: &client, model: model, timeout: timeout}
}

func (c *Client) chat(ctx context.Context, instructions, data string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(instructions),
			openai.UserMessage(data),
		},
		Model: c.model,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("client didn't return any content choices")
	}

	return resp.Choices[0].Message.Content, nil
}

const customerInstructions = `You invent restaurant customers for a market simulation. ` +
	`Respond with a single JSON object with string fields: name, income, taste, health, ` +
	`dietary_restriction, personality, criticality. criticality is one of easy, medium, critical.`

func (c *Client) GenerateCustomer(ctx context.Context) (Profile, error) {
	raw, err := c.chat(ctx, customerInstructions, "Generate one customer.")
	if err != nil {
		return Profile{}, errors.Wrap(err, "generating customer")
	}
	return parseProfile(raw)
}

const decisionInstructions = `You role-play a restaurant customer choosing where to eat, or ` +
	`whether to eat out at all. Weigh the reviews you were shown, your doubts about them, any ` +
	`extra reviews you dug up, your own past visits, your budget and your tastes. ` +
	`Respond with a single JSON object: {"decision": "A" | "B" | "neither", "reason": "..."}.`

func (c *Client) Decide(ctx context.Context, req DecisionRequest) (Decision, error) {
	raw, err := c.chat(ctx, decisionInstructions, decisionPrompt(req))
	if err != nil {
		return Decision{}, errors.Wrap(err, "requesting decision")
	}
	return parseDecision(raw)
}

const menuInstructions = `You role-play a restaurant customer ordering from a menu. Pick exactly ` +
	`one item that fits your tastes, budget and dietary needs. Respond with a single JSON object: ` +
	`{"chosen_item": "<exact menu item name>", "reason": "..."}.`

func (c *Client) ChooseMenuItem(ctx context.Context, customer *simv1.Customer, vendor VendorContext) (string, error) {
	raw, err := c.chat(ctx, menuInstructions, menuPrompt(customer, vendor))
	if err != nil {
		return "", errors.Wrap(err, "requesting menu choice")
	}
	item := gjson.Get(raw, "chosen_item").String()
	if item == "" {
		return "", errors.Errorf("menu response missing chosen_item: %s", compact(raw))
	}
	if _, ok := vendor.Menu[item]; !ok {
		return "", errors.Errorf("menu response names unknown item %q", item)
	}
	return item, nil
}

const reviewInstructions = `You write a short restaurant review (30-50 words, first person) that ` +
	`matches a star rating the customer already settled on. Stay in the customer's voice. ` +
	`Respond with a single JSON object: {"text": "..."}.`

func (c *Client) GenerateReview(ctx context.Context, req ReviewRequest) (string, error) {
	raw, err := c.chat(ctx, reviewInstructions, reviewPrompt(req))
	if err != nil {
		return "", errors.Wrap(err, "requesting review text")
	}
	text := gjson.Get(raw, "text").String()
	if text == "" {
		return "", errors.Errorf("review response missing text: %s", compact(raw))
	}
	return text, nil
}

func parseProfile(raw string) (Profile, error) {
	if !gjson.Valid(raw) {
		return Profile{}, errors.Errorf("customer response is not valid JSON: %s", compact(raw))
	}
	p := Profile{
		Name:               gjson.Get(raw, "name").String(),
		Income:             gjson.Get(raw, "income").String(),
		Taste:              gjson.Get(raw, "taste").String(),
		Health:             gjson.Get(raw, "health").String(),
		DietaryRestriction: gjson.Get(raw, "dietary_restriction").String(),
		Personality:        gjson.Get(raw, "personality").String(),
		Criticality:        strings.ToLower(gjson.Get(raw, "criticality").String()),
	}
	if p.Name == "" || p.Personality == "" {
		return Profile{}, errors.Errorf("customer response missing name or personality: %s", compact(raw))
	}
	switch p.Criticality {
	case "easy", "medium", "critical":
	default:
		p.Criticality = "medium"
	}
	return p, nil
}

func parseDecision(raw string) (Decision, error) {
	choice := strings.ToLower(gjson.Get(raw, "decision").String())
	switch choice {
	case "a":
		choice = ChoiceA
	case "b":
		choice = ChoiceB
	case "neither", "none", "no":
		choice = ChoiceNeither
	default:
		return Decision{}, errors.Errorf("decision response has no valid decision: %s", compact(raw))
	}
	return Decision{Choice: choice, Reason: gjson.Get(raw, "reason").String()}, nil
}

func decisionPrompt(req DecisionRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s.\n", req.Customer.Name)
	writeAttributes(&b, req.Customer)
	writeVendor(&b, req.A)
	writeVendor(&b, req.B)
	b.WriteString("\nChoose Restaurant A, Restaurant B, or neither.")
	return b.String()
}

func menuPrompt(customer *simv1.Customer, vendor VendorContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, ordering at %s.\n", customer.Name, vendor.Name)
	writeAttributes(&b, customer)
	if past := pastOrders(customer, vendor.VendorID); len(past) > 0 {
		fmt.Fprintf(&b, "\nYou have ordered here before: %s.\n", strings.Join(past, ", "))
	}
	b.WriteString("\nMenu:\n")
	for _, item := range sortedMenu(vendor.Menu) {
		fmt.Fprintf(&b, "- %s: $%.2f\n", item, vendor.Menu[item])
	}
	return b.String()
}

// pastOrders lists the distinct items the customer has ordered at this
// vendor, oldest first.
func pastOrders(customer *simv1.Customer, vendorID string) []string {
	seen := map[string]bool{}
	var items []string
	for _, exp := range customer.Experiences {
		if exp.VendorID != vendorID || exp.OrderedItem == "" || seen[exp.OrderedItem] {
			continue
		}
		seen[exp.OrderedItem] = true
		items = append(items, exp.OrderedItem)
	}
	return items
}

func reviewPrompt(req ReviewRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, reviewing %s after ordering %s.\n", req.Customer.Name, req.VendorName, req.OrderedItem)
	writeAttributes(&b, req.Customer)
	fmt.Fprintf(&b, "\nYou rated the visit %.0f stars", req.Stars)
	if req.Satisfied {
		b.WriteString(" and left satisfied.\n")
	} else {
		b.WriteString(" and left disappointed.\n")
	}
	return b.String()
}

func writeAttributes(b *strings.Builder, customer *simv1.Customer) {
	keys := make([]string, 0, len(customer.Attributes))
	for k := range customer.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v := customer.Attributes[k]; v != "" {
			fmt.Fprintf(b, "- %s: %s\n", strings.ReplaceAll(k, "_", " "), v)
		}
	}
}

func writeVendor(b *strings.Builder, v VendorContext) {
	fmt.Fprintf(b, "\nRestaurant %s (%s):\n", v.VendorID, v.Name)
	if v.Description != "" {
		fmt.Fprintf(b, "- %s\n", v.Description)
	}
	fmt.Fprintf(b, "- Overall rating: %.1f stars from %d reviews\n", v.Rating, v.ReviewCount)
	if len(v.Menu) > 0 {
		fmt.Fprintf(b, "- Menu: %s\n", strings.Join(sortedMenu(v.Menu), ", "))
	}
	if v.PastVisits > 0 {
		fmt.Fprintf(b, "- You have eaten here %d time(s); your overall impression score is %+.2f\n", v.PastVisits, v.Preference)
	}
	if len(v.Reviews) > 0 {
		b.WriteString("- Reviews you were shown:\n")
		for _, r := range v.Reviews {
			fmt.Fprintf(b, "  %.1f stars: %s\n", r.Stars, r.Text)
		}
	}
	writeSkepticism(b, v)
}

func writeSkepticism(b *strings.Builder, v VendorContext) {
	if v.Skepticism == nil || v.Skepticism.Level == simv1.SkepticismNone {
		return
	}
	desc := map[simv1.SkepticismLevel]string{
		simv1.SkepticismLow:    "slightly suspicious of",
		simv1.SkepticismMedium: "moderately skeptical of",
		simv1.SkepticismHigh:   "very skeptical of",
	}
	fmt.Fprintf(b, "- You feel %s the reviews shown", desc[v.Skepticism.Level])
	if len(v.Skepticism.Concerns) > 0 {
		fmt.Fprintf(b, " (%s)", strings.Join(v.Skepticism.Concerns, ", "))
	}
	b.WriteString("\n")
	if v.Investigation != nil {
		if v.Investigation.Resolved {
			fmt.Fprintf(b, "- You dug up more reviews and your doubts were settled (%s)\n", v.Investigation.Reason)
		} else {
			fmt.Fprintf(b, "- You dug up more reviews but your doubts remain (%s)\n", v.Investigation.Reason)
		}
	}
	if len(v.Additional) > 0 {
		b.WriteString("- Extra reviews you found:\n")
		for _, r := range v.Additional {
			fmt.Fprintf(b, "  %.1f stars: %s\n", r.Stars, r.Text)
		}
	}
}

func sortedMenu(menu map[string]float64) []string {
	items := make([]string, 0, len(menu))
	for item := range menu {
		items = append(items, item)
	}
	sort.Strings(items)
	return items
}

func compact(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) > 200 {
		return raw[:200] + "..."
	}
	return raw
}
