package api

const webUI = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Remote Print Client</title>
<style>
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif;background:#f5f5f5;color:#333;line-height:1.6}

.hdr{background:linear-gradient(135deg,#667eea 0%,#764ba2 100%);color:#fff;padding:14px 20px;display:flex;align-items:center;justify-content:space-between;position:sticky;top:0;z-index:100}
.hdr h1{font-size:18px;font-weight:600}
.hdr-right{display:flex;align-items:center;font-size:13px;gap:6px}
.dot{width:10px;height:10px;border-radius:50%;display:inline-block}
.dot-green{background:#22c55e}.dot-red{background:#ef4444}.dot-yellow{background:#f59e0b}.dot-gray{background:#9ca3af}

.content{max-width:900px;margin:0 auto;padding:20px}
.card{background:#fff;border-radius:8px;padding:20px;margin-bottom:16px;box-shadow:0 1px 3px rgba(0,0,0,.1)}
.card h2{font-size:16px;margin-bottom:12px;padding-bottom:8px;border-bottom:1px solid #eee}

.btn{display:inline-flex;align-items:center;gap:6px;padding:8px 16px;border-radius:6px;border:none;cursor:pointer;font-size:14px;font-weight:500}
.btn:disabled{opacity:.5;cursor:not-allowed}
.btn-primary{background:#667eea;color:#fff}
.btn-secondary{background:#e5e7eb;color:#374151}
.btn-danger{background:#fff;color:#ef4444;border:1px solid #ef4444}
.btn-sm{padding:5px 10px;font-size:12px}

.form-row{display:grid;grid-template-columns:2fr 1fr 1fr;gap:12px;margin-bottom:12px}
.form-row label{display:block;font-size:13px;font-weight:500;margin-bottom:4px;color:#555}
.form-row input,.form-row select{width:100%;padding:8px 12px;border:1px solid #ddd;border-radius:6px;font-size:14px}

.drop{border:2px dashed #cbd5e1;border-radius:8px;padding:30px;text-align:center;color:#888;cursor:pointer}
.drop.dragover{border-color:#667eea;background:#eef2ff}
.progress{display:none;align-items:center;gap:10px;margin-top:12px}
.progress.on{display:flex}
.bar{flex:1;height:8px;background:#e5e7eb;border-radius:4px;overflow:hidden}
.bar-fill{height:100%;background:#667eea;width:0;transition:width .2s}

.files{display:grid;grid-template-columns:repeat(auto-fill,minmax(180px,1fr));gap:12px}
.file-card{background:#f9fafb;border-radius:6px;padding:12px;cursor:pointer}
.file-card img{width:100%;height:90px;object-fit:cover;border-radius:4px}
.file-ph{height:90px;display:flex;align-items:center;justify-content:center;font-size:36px;background:#eef2ff;border-radius:4px}
.file-name{font-size:13px;font-weight:500;margin-top:8px;overflow:hidden;text-overflow:ellipsis;white-space:nowrap}
.file-size{font-size:12px;color:#888}
.file-actions{display:flex;gap:6px;margin-top:8px}

.job{display:flex;justify-content:space-between;align-items:center;padding:10px 0;border-bottom:1px solid #f0f0f0;font-size:13px}
.job:last-child{border:none}
.job-meta{color:#888;font-size:12px}
.badge{display:inline-block;padding:2px 10px;border-radius:20px;font-size:12px;font-weight:500;margin-left:6px}
.badge-pending{background:#fef9c3;color:#854d0e}
.badge-completed{background:#dcfce7;color:#166534}
.badge-cancelled{background:#f3f4f6;color:#374151}
.badge-failed{background:#fee2e2;color:#991b1b}
.empty{text-align:center;padding:30px;color:#999}

.toasts{position:fixed;top:60px;right:20px;z-index:200;display:flex;flex-direction:column;gap:8px}
.toast{padding:12px 20px;border-radius:6px;color:#fff;font-size:14px;box-shadow:0 4px 12px rgba(0,0,0,.15)}
.toast-info{background:#667eea}.toast-success{background:#22c55e}.toast-warning{background:#f59e0b}.toast-error{background:#ef4444}

.modal{position:fixed;inset:0;background:rgba(0,0,0,.4);display:none;align-items:center;justify-content:center;z-index:150}
.modal.show{display:flex}
.modal-box{background:#fff;border-radius:8px;padding:24px;max-width:520px;width:90%}
.modal-box h3{margin-bottom:12px;font-size:16px}
.modal-box img{max-width:100%;max-height:60vh;display:block;margin:0 auto}
.modal-actions{display:flex;gap:8px;justify-content:flex-end;margin-top:16px}
</style>
</head>
<body>

<div class="hdr">
 <h1>Remote Print Client</h1>
 <div class="hdr-right">
  <span id="status-text">checking...</span>
  <span id="status-dot" class="dot dot-yellow"></span>
 </div>
</div>

<div class="content">
 <div class="card">
  <h2>Print Settings</h2>
  <div class="form-row">
   <div><label>Printer</label><select id="printer"></select></div>
   <div><label>Copies</label><input type="number" id="copies" value="1" min="1"></div>
   <div><label>Page range</label><input type="text" id="pages" placeholder="e.g. 1-4,7"></div>
  </div>
 </div>

 <div class="card">
  <h2>Upload</h2>
  <div class="drop" id="drop">Drop files here or click to choose</div>
  <input type="file" id="picker" multiple style="display:none">
  <div class="progress" id="progress">
   <div class="bar"><div class="bar-fill" id="bar-fill"></div></div>
   <span id="bar-text">0%</span>
  </div>
 </div>

 <div class="card">
  <h2>Files <button class="btn btn-secondary btn-sm" style="float:right" onclick="refreshFiles()">Refresh</button></h2>
  <div class="files" id="files"></div>
 </div>

 <div class="card">
  <h2>Print Jobs <button class="btn btn-secondary btn-sm" style="float:right" onclick="refreshJobs()">Refresh</button></h2>
  <div id="jobs"></div>
 </div>
</div>

<div class="toasts" id="toasts"></div>

<div class="modal" id="modal">
 <div class="modal-box">
  <h3 id="modal-title"></h3>
  <div id="modal-body"></div>
  <div class="modal-actions">
   <button class="btn btn-primary" id="modal-print">Print</button>
   <button class="btn btn-danger" id="modal-delete">Delete</button>
   <button class="btn btn-secondary" onclick="closePreview()">Close</button>
  </div>
 </div>
</div>

<script>
let st = {files:[],jobs:[],printers:[],status:'unknown',preview:'',progress:{}};

function esc(s){const d=document.createElement('div');d.textContent=s;return d.innerHTML}

function connect(){
 const ws = new WebSocket((location.protocol==='https:'?'wss://':'ws://')+location.host+'/ws');
 ws.onmessage = e => {
  const msg = JSON.parse(e.data);
  if(msg.type==='update'){ st = msg.state; render(msg.notifications); }
 };
 ws.onclose = () => setTimeout(connect, 2000);
}

function render(notifications){
 renderStatus(); renderPrinters(); renderFiles(); renderJobs();
 renderProgress(); renderToasts(notifications); renderPreview();
}

function renderStatus(){
 const dot = document.getElementById('status-dot');
 const text = document.getElementById('status-text');
 const map = {idle:['dot-green','ready'],processing:['dot-yellow','printing'],stopped:['dot-red','stopped'],unknown:['dot-gray','offline']};
 const [cls,label] = map[st.status] || map.unknown;
 dot.className = 'dot '+cls;
 text.textContent = label;
}

function renderPrinters(){
 const sel = document.getElementById('printer');
 const prev = sel.value;
 sel.innerHTML = '';
 if(st.printers.length===0){
  sel.appendChild(new Option('no printers found',''));
  return;
 }
 st.printers.forEach(p => sel.appendChild(new Option(p.name+(p.info?' ('+p.info+')':''),p.name)));
 if([...sel.options].some(o=>o.value===prev)) sel.value = prev;
}

function renderFiles(){
 const grid = document.getElementById('files');
 if(st.files.length===0){ grid.innerHTML = '<div class="empty">no files uploaded</div>'; return; }
 grid.innerHTML = st.files.map(f => {
  const preview = f.preview_path
   ? '<img src="'+esc(f.preview_path)+'" alt="">'
   : '<div class="file-ph">&#128196;</div>';
  const n = esc(f.filename);
  return '<div class="file-card" onclick="openPreview(\''+encodeURIComponent(f.filename)+'\')">'+preview+
   '<div class="file-name" title="'+n+'">'+n+'</div><div class="file-size">'+esc(f.size)+'</div>'+
   '<div class="file-actions" onclick="event.stopPropagation()">'+
   '<button class="btn btn-secondary btn-sm" onclick="printFile(\''+encodeURIComponent(f.filename)+'\')">Print</button>'+
   '<button class="btn btn-danger btn-sm" onclick="delFile(\''+encodeURIComponent(f.filename)+'\',false)">Delete</button>'+
   '</div></div>';
 }).join('');
}

function renderJobs(){
 const list = document.getElementById('jobs');
 if(st.jobs.length===0){ list.innerHTML = '<div class="empty">no print jobs</div>'; return; }
 list.innerHTML = st.jobs.map(j =>
  '<div class="job"><div><div>'+esc(j.name||'untitled')+
  '<span class="badge badge-'+j.class+'">'+esc(j.label)+'</span></div>'+
  '<div class="job-meta">printer: '+esc(j.printer||'-')+' | user: '+esc(j.user||'-')+' | size: '+esc(j.size_text)+'</div></div>'+
  (j.cancelable ? '<button class="btn btn-danger btn-sm" onclick="cancelJob('+j.job_id+')">Cancel</button>' : '')+
  '</div>'
 ).join('');
}

function renderProgress(){
 const p = st.progress || {};
 document.getElementById('progress').className = 'progress'+(p.active?' on':'');
 document.getElementById('bar-fill').style.width = (p.percent||0)+'%';
 document.getElementById('bar-text').textContent = (p.percent||0)+'%';
}

function renderToasts(notifications){
 const box = document.getElementById('toasts');
 box.innerHTML = (notifications||[]).map(n =>
  '<div class="toast toast-'+n.severity+'">'+esc(n.message)+'</div>'
 ).join('');
}

function renderPreview(){
 const modal = document.getElementById('modal');
 if(!st.preview){ modal.classList.remove('show'); return; }
 const file = st.files.find(f => f.filename===st.preview);
 if(!file) return;
 document.getElementById('modal-title').textContent = file.filename;
 document.getElementById('modal-body').innerHTML = file.preview_path
  ? '<img src="'+esc(file.preview_path)+'" alt="">'
  : '<div class="empty">no preview available</div>';
 document.getElementById('modal-print').onclick = () => printFile(encodeURIComponent(file.filename));
 document.getElementById('modal-delete').onclick = () => delFile(encodeURIComponent(file.filename), true);
 modal.classList.add('show');
}

async function uploadFiles(files){
 if(!files || files.length===0) return;
 const fd = new FormData();
 for(const f of files) fd.append('file', f);
 await fetch('/api/upload', {method:'POST', body:fd});
}

async function printFile(name){
 const res = await fetch('/api/print', {
  method:'POST', headers:{'Content-Type':'application/json'},
  body: JSON.stringify({
   filename: decodeURIComponent(name),
   printer: document.getElementById('printer').value,
   copies: parseInt(document.getElementById('copies').value) || 1,
   page_range: document.getElementById('pages').value
  })
 });
 const out = await res.json();
 if(out.success) document.getElementById('pages').value = '';
}

function delFile(name, fromPreview){
 if(!confirm('Delete file "'+decodeURIComponent(name)+'"?')){
  if(fromPreview) closePreview();
  return;
 }
 fetch('/api/files/'+name+(fromPreview?'?from_preview=1':''), {method:'DELETE'});
}

function cancelJob(id){
 if(!confirm('Cancel this print job?')) return;
 fetch('/api/jobs/'+id+'/cancel', {method:'POST'});
}

function openPreview(name){ fetch('/api/preview/'+name, {method:'POST'}); }
function closePreview(){ fetch('/api/preview', {method:'DELETE'}); }
function refreshFiles(){ fetch('/api/refresh/files', {method:'POST'}); }
function refreshJobs(){ fetch('/api/refresh/jobs', {method:'POST'}); }

const drop = document.getElementById('drop');
const picker = document.getElementById('picker');
drop.onclick = () => picker.click();
drop.ondragover = e => { e.preventDefault(); drop.classList.add('dragover'); };
drop.ondragleave = () => drop.classList.remove('dragover');
drop.ondrop = e => { e.preventDefault(); drop.classList.remove('dragover'); uploadFiles(e.dataTransfer.files); };
picker.onchange = e => { uploadFiles(e.target.files); e.target.value=''; };

document.getElementById('modal').onclick = e => { if(e.target===e.currentTarget) closePreview(); };

connect();
</script>
</body>
</html>`
