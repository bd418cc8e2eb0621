package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Update is a declarative field-level update template: an ordered list of
// set and remove operations addressed by dotted attribute paths
// (e.g. "workouts.1b2f…c9.dateLast"). Path segments are aliased into
// expression attribute names at compile time, so segments may hold any
// characters except the dot separator.
type Update struct {
	sets    []fieldSet
	removes []string
	err     error
}

type fieldSet struct {
	path  string
	value types.AttributeValue
}

// NewUpdate creates an empty update template.
func NewUpdate() *Update {
	return &Update{}
}

// Set marshals value through attributevalue and stages a SET on path.
func (u *Update) Set(path string, value any) *Update {
	av, err := attributevalue.Marshal(value)
	if err != nil && u.err == nil {
		u.err = fmt.Errorf("marshal %s: %w", path, err)
	}
	u.sets = append(u.sets, fieldSet{path: path, value: av})
	return u
}

// SetAttr stages a SET of an already-marshalled attribute value.
func (u *Update) SetAttr(path string, value types.AttributeValue) *Update {
	u.sets = append(u.sets, fieldSet{path: path, value: value})
	return u
}

// Remove stages a REMOVE of path.
func (u *Update) Remove(path string) *Update {
	u.removes = append(u.removes, path)
	return u
}

// Empty reports whether the template stages no operations. DynamoDB rejects
// a transaction holding two writes against the same item, so flows that
// conditionally touch an item build one template and skip staging it when
// nothing accumulated.
func (u *Update) Empty() bool {
	return len(u.sets) == 0 && len(u.removes) == 0
}

// expression compiles the template into an update expression plus its
// attribute name and value maps.
func (u *Update) expression() (string, map[string]string, map[string]types.AttributeValue, error) {
	if u.err != nil {
		return "", nil, nil, u.err
	}
	if len(u.sets) == 0 && len(u.removes) == 0 {
		return "", nil, nil, fmt.Errorf("store: empty update template")
	}

	names := make(map[string]string)
	values := make(map[string]types.AttributeValue)
	aliases := make(map[string]string)

	aliasPath := func(path string) string {
		segments := strings.Split(path, ".")
		aliased := make([]string, len(segments))
		for i, seg := range segments {
			alias, ok := aliases[seg]
			if !ok {
				alias = fmt.Sprintf("#n%d", len(aliases))
				aliases[seg] = alias
				names[alias] = seg
			}
			aliased[i] = alias
		}
		return strings.Join(aliased, ".")
	}

	var expr strings.Builder
	if len(u.sets) > 0 {
		expr.WriteString("SET ")
		for i, op := range u.sets {
			if i > 0 {
				expr.WriteString(", ")
			}
			valueKey := fmt.Sprintf(":v%d", i)
			values[valueKey] = op.value
			expr.WriteString(aliasPath(op.path))
			expr.WriteString(" = ")
			expr.WriteString(valueKey)
		}
	}
	if len(u.removes) > 0 {
		if expr.Len() > 0 {
			expr.WriteString(" ")
		}
		expr.WriteString("REMOVE ")
		for i, path := range u.removes {
			if i > 0 {
				expr.WriteString(", ")
			}
			expr.WriteString(aliasPath(path))
		}
	}

	return expr.String(), names, values, nil
}

// existsCondition builds a condition requiring every key attribute to exist,
// so updates never create phantom items. Aliases are merged into names.
func existsCondition(key PK, names map[string]string) string {
	attrs := make([]string, 0, len(key))
	for attr := range key {
		attrs = append(attrs, attr)
	}
	sort.Strings(attrs)

	clauses := make([]string, len(attrs))
	for i, attr := range attrs {
		alias := fmt.Sprintf("#k%d", i)
		names[alias] = attr
		clauses[i] = fmt.Sprintf("attribute_exists(%s)", alias)
	}
	return strings.Join(clauses, " AND ")
}

// Tx collects declarative writes and compiles them into one atomic
// TransactWriteItems batch.
type Tx struct {
	writes []txWrite
}

type txWrite struct {
	table  string
	key    PK
	item   map[string]types.AttributeValue // put
	update *Update                         // update
	delete bool
}

// NewTx creates an empty transaction.
func NewTx() *Tx {
	return &Tx{}
}

// Put stages a full-item put, replacing any existing item.
func (t *Tx) Put(table string, item map[string]types.AttributeValue) *Tx {
	t.writes = append(t.writes, txWrite{table: table, item: item})
	return t
}

// Update stages a field-level update of an existing item.
func (t *Tx) Update(table string, key PK, u *Update) *Tx {
	t.writes = append(t.writes, txWrite{table: table, key: key, update: u})
	return t
}

// Delete stages an item deletion.
func (t *Tx) Delete(table string, key PK) *Tx {
	t.writes = append(t.writes, txWrite{table: table, key: key, delete: true})
	return t
}

// Len returns the number of staged writes.
func (t *Tx) Len() int {
	return len(t.writes)
}

// compile translates the staged writes into a TransactWriteItemsInput.
// Returns nil for an empty transaction and ErrBatchTooLarge when the batch
// exceeds limit; an oversized batch is never split.
func (t *Tx) compile(limit int) (*dynamodb.TransactWriteItemsInput, error) {
	if len(t.writes) == 0 {
		return nil, nil
	}
	if len(t.writes) > limit {
		return nil, fmt.Errorf("%w: %d writes, limit %d", ErrBatchTooLarge, len(t.writes), limit)
	}

	items := make([]types.TransactWriteItem, 0, len(t.writes))
	for _, w := range t.writes {
		switch {
		case w.item != nil:
			items = append(items, types.TransactWriteItem{
				Put: &types.Put{
					TableName: aws.String(w.table),
					Item:      w.item,
				},
			})
		case w.delete:
			items = append(items, types.TransactWriteItem{
				Delete: &types.Delete{
					TableName: aws.String(w.table),
					Key:       w.key,
				},
			})
		default:
			expr, names, values, err := w.update.expression()
			if err != nil {
				return nil, err
			}
			update := &types.Update{
				TableName:                aws.String(w.table),
				Key:                      w.key,
				UpdateExpression:         aws.String(expr),
				ConditionExpression:      aws.String(existsCondition(w.key, names)),
				ExpressionAttributeNames: names,
			}
			if len(values) > 0 {
				update.ExpressionAttributeValues = values
			}
			items = append(items, types.TransactWriteItem{Update: update})
		}
	}

	return &dynamodb.TransactWriteItemsInput{TransactItems: items}, nil
}
