package email

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
)

// Client talks to the transactional email API used to deliver
// notification emails. Delivery is best effort, the caller never
// blocks domain writes on it.
type Client struct {
	senderAddress  string
	noReplyAddress string
	siteName       string
	client         http.Client
	apiKey         string
	baseURL        string
}

type Address struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type EmailMessage struct {
	Sender      Address   `json:"sender"`
	To          []Address `json:"to"`
	Subject     string    `json:"subject"`
	ReplyTo     Address   `json:"replyTo,omitempty"`
	TextContent string    `json:"textContent,omitempty"`
	HtmlContent string    `json:"htmlContent,omitempty"`
}

func NewClient(apiKey, senderAddress, noReplyAddress, siteName string) (Client, error) {
	return Client{
		client:         *http.DefaultClient,
		apiKey:         apiKey,
		senderAddress:  senderAddress,
		noReplyAddress: noReplyAddress,
		siteName:       siteName,
		baseURL:        "https://api.sendinblue.com",
	}, nil
}

func (e Client) DefaultSenderName() string {
	return e.siteName
}

func (e Client) NoReplySenderAddress() string {
	return e.noReplyAddress
}

func (e Client) SupportSenderAddress() string {
	return e.senderAddress
}

func (e Client) SendHTMLEmail(from, to Address, subject, text string) error {
	msg := EmailMessage{
		Sender:      from,
		ReplyTo:     from,
		Subject:     subject,
		To:          []Address{to},
		HtmlContent: text,
	}
	reqData, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/v3/smtp/email", e.baseURL), bytes.NewReader(reqData))
	if err != nil {
		return err
	}
	req.Header.Add("api-key", e.apiKey)
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	res, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		out, _ := ioutil.ReadAll(res.Body)
		return errors.New("got non 2xx code from email api: " + string(out))
	}

	return nil
}
