package catalog

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// node is a namespace-agnostic element tree. The service wraps its payload
// in SOAP-ish envelopes whose namespaces vary, so lookups use local names.
type node struct {
	XMLName xml.Name
	Content string `xml:",chardata"`
	Nodes   []node `xml:",any"`
}

func decodeTree(r io.Reader) (*node, error) {
	var root node
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return nil, &MalformedResponseError{Reason: fmt.Sprintf("decode xml: %v", err)}
	}
	return &root, nil
}

func (n *node) child(name string) *node {
	for i := range n.Nodes {
		if n.Nodes[i].XMLName.Local == name {
			return &n.Nodes[i]
		}
	}
	return nil
}

func (n *node) children(name string) []*node {
	var out []*node
	for i := range n.Nodes {
		if n.Nodes[i].XMLName.Local == name {
			out = append(out, &n.Nodes[i])
		}
	}
	return out
}

// find returns the first element named name in depth-first order, n included.
func (n *node) find(name string) *node {
	if n.XMLName.Local == name {
		return n
	}
	for i := range n.Nodes {
		if found := n.Nodes[i].find(name); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns every element named name below n without descending into
// matches.
func (n *node) findAll(name string) []*node {
	var out []*node
	for i := range n.Nodes {
		c := &n.Nodes[i]
		if c.XMLName.Local == name {
			out = append(out, c)
			continue
		}
		out = append(out, c.findAll(name)...)
	}
	return out
}

func (n *node) text(field string) (string, error) {
	c := n.child(field)
	if c == nil {
		return "", malformed(field, "missing element in %s", n.XMLName.Local)
	}
	v := strings.TrimSpace(c.Content)
	if v == "" {
		return "", malformed(field, "empty element in %s", n.XMLName.Local)
	}
	return v, nil
}

func (n *node) optionalText(field string) string {
	c := n.child(field)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Content)
}

func (n *node) integer(field string) (int, error) {
	raw, err := n.text(field)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, malformed(field, "invalid integer %q", raw)
	}
	return v, nil
}

func (n *node) date(field string) (time.Time, error) {
	raw := n.optionalText(field)
	d, err := ParseDate(raw)
	if err != nil {
		return time.Time{}, malformed(field, "invalid date %q", raw)
	}
	return d, nil
}

// ParseCatalogue maps a GetCatalogueItems document into the item metadata and
// its copies.
func ParseCatalogue(r io.Reader, catalogNumber string) (Info, []Copy, error) {
	root, err := decodeTree(r)
	if err != nil {
		return Info{}, nil, err
	}
	items := root.find("Items")
	if items == nil {
		return Info{}, nil, malformed("Items", "missing element")
	}

	info := Info{CatalogNumber: catalogNumber}
	if info.Title, err = items.text("Title"); err != nil {
		return Info{}, nil, err
	}
	if info.Author, err = items.text("Author"); err != nil {
		return Info{}, nil, err
	}
	if info.Year, err = items.integer("YearOfPublication"); err != nil {
		return Info{}, nil, err
	}
	if info.Copies, err = items.integer("TotalItems"); err != nil {
		return Info{}, nil, err
	}

	elems := items.children("Item")
	copies := make([]Copy, 0, len(elems))
	for _, elem := range elems {
		c, err := parseCopy(elem, catalogNumber)
		if err != nil {
			return Info{}, nil, err
		}
		copies = append(copies, c)
	}
	return info, copies, nil
}

func parseCopy(elem *node, catalogNumber string) (Copy, error) {
	var (
		c   Copy
		err error
	)
	if c.Number, err = elem.text("ItemNo"); err != nil {
		return Copy{}, err
	}
	if c.Owner, err = elem.text("OwnerDescription"); err != nil {
		return Copy{}, err
	}
	code, err := elem.integer("CurrentStatus")
	if err != nil {
		return Copy{}, err
	}
	if c.Status, err = NormalizeStatus(code, catalogNumber); err != nil {
		return Copy{}, err
	}
	if c.StatusChanged, err = elem.date("StatusChangeDate"); err != nil {
		return Copy{}, err
	}
	switch raw := elem.optionalText("IsReserved"); raw {
	case "", "0":
	case "1":
		c.Reserved = true
	default:
		return Copy{}, malformed("IsReserved", "invalid flag %q", raw)
	}
	return c, nil
}

// ParseStock maps a GetStockStatusInfo document into per-branch stock.
func ParseStock(r io.Reader, bacNo string) ([]Branch, error) {
	root, err := decodeTree(r)
	if err != nil {
		return nil, err
	}
	elems := root.findAll("Branch")
	branches := make([]Branch, 0, len(elems))
	for _, elem := range elems {
		b, err := parseBranch(elem, bacNo)
		if err != nil {
			return nil, err
		}
		branches = append(branches, b)
	}
	return branches, nil
}

func parseBranch(elem *node, bacNo string) (Branch, error) {
	var (
		b   Branch
		err error
	)
	if b.Name, err = elem.text("Name"); err != nil {
		return Branch{}, err
	}
	if b.Copies, err = elem.integer("Copies"); err != nil {
		return Branch{}, err
	}
	for _, item := range elem.findAll("Item") {
		var si StockItem
		if si.Shelf, err = item.text("SHELF"); err != nil {
			return Branch{}, err
		}
		code, err := item.integer("IsOnLoan")
		if err != nil {
			return Branch{}, err
		}
		if si.LoanStatus, err = NormalizeLoanStatus(code, bacNo); err != nil {
			return Branch{}, err
		}
		if si.DueDate, err = item.date("DueDate"); err != nil {
			return Branch{}, err
		}
		b.Items = append(b.Items, si)
	}
	return b, nil
}
